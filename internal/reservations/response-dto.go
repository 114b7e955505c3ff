package reservations

import (
	"errors"
	"time"

	"theatre/internal/performances"

	"github.com/google/uuid"
)

type TicketResponse struct {
	ID          uuid.UUID            `json:"id"`
	Row         int                  `json:"row"`
	Seat        int                  `json:"seat"`
	Performance performances.Summary `json:"performance"`
}

type ReservationResponse struct {
	ID        uuid.UUID        `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Tickets   []TicketResponse `json:"tickets"`
}

// SeatErrorResponse locates the seat request that was rejected
type SeatErrorResponse struct {
	Kind        Kind       `json:"kind"`
	Row         *int       `json:"row,omitempty"`
	Seat        *int       `json:"seat,omitempty"`
	Performance *uuid.UUID `json:"performance,omitempty"`
}

// ToReservationResponse expects tickets with their performance, play and hall loaded
func ToReservationResponse(r Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Tickets:   make([]TicketResponse, 0, len(r.Tickets)),
	}
	for _, t := range r.Tickets {
		resp.Tickets = append(resp.Tickets, TicketResponse{
			ID:          t.ID,
			Row:         t.Row,
			Seat:        t.Seat,
			Performance: performances.ToSummary(t.Performance),
		})
	}
	return resp
}

func toSeatErrorResponse(kind Kind, err error) SeatErrorResponse {
	resp := SeatErrorResponse{Kind: kind}
	var seatErr *SeatError
	if errors.As(err, &seatErr) {
		row, seat := seatErr.Row, seatErr.Seat
		resp.Row = &row
		resp.Seat = &seat
		if seatErr.PerformanceID != uuid.Nil {
			id := seatErr.PerformanceID
			resp.Performance = &id
		}
	}
	return resp
}
