package halls

import "github.com/google/uuid"

type HallResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Rows       int       `json:"rows"`
	SeatsInRow int       `json:"seats_in_row"`
	Capacity   int       `json:"capacity"`
}

func ToHallResponse(h TheatreHall) HallResponse {
	return HallResponse{
		ID:         h.ID,
		Name:       h.Name,
		Rows:       h.Rows,
		SeatsInRow: h.SeatsInRow,
		Capacity:   h.Capacity(),
	}
}
