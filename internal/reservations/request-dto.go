package reservations

import "github.com/google/uuid"

type TicketRequest struct {
	Row         int       `json:"row"`
	Seat        int       `json:"seat"`
	Performance uuid.UUID `json:"performance" binding:"required"`
}

// CreateReservationRequest is the POST /reservations body. Coordinates and an
// empty ticket list are checked by the service so they report their error kind.
type CreateReservationRequest struct {
	Tickets []TicketRequest `json:"tickets" binding:"dive"`
}

func (r CreateReservationRequest) SeatRequests() []SeatRequest {
	out := make([]SeatRequest, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		out = append(out, SeatRequest{Row: t.Row, Seat: t.Seat, PerformanceID: t.Performance})
	}
	return out
}
