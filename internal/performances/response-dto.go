package performances

import (
	"time"

	"theatre/internal/halls"
	"theatre/internal/plays"

	"github.com/google/uuid"
)

// Summary is the display data reservations echo for each ticket
type Summary struct {
	ID                  uuid.UUID `json:"id"`
	ShowTime            time.Time `json:"show_time"`
	PlayTitle           string    `json:"play_title"`
	PlayImage           *string   `json:"play_image"`
	TheatreHallName     string    `json:"theatre_hall_name"`
	TheatreHallCapacity int       `json:"theatre_hall_capacity"`
}

type PerformanceListItem struct {
	Summary
	TicketsAvailable int `json:"tickets_available"`
}

type PerformanceDetail struct {
	ID               uuid.UUID          `json:"id"`
	Play             plays.PlayDetail   `json:"play"`
	TheatreHall      halls.HallResponse `json:"theatre_hall"`
	ShowTime         time.Time          `json:"show_time"`
	TicketsAvailable int                `json:"tickets_available"`
	TakenPlaces      []TakenPlace       `json:"taken_places"`
}

type AvailabilityResponse struct {
	PerformanceID    uuid.UUID    `json:"performance_id"`
	Capacity         int          `json:"capacity"`
	TicketsAvailable int          `json:"tickets_available"`
	TakenPlaces      []TakenPlace `json:"taken_places"`
}

// ToSummary expects Play and TheatreHall to be loaded
func ToSummary(p Performance) Summary {
	s := Summary{
		ID:                  p.ID,
		ShowTime:            p.ShowTime,
		PlayTitle:           p.Play.Title,
		TheatreHallName:     p.TheatreHall.Name,
		TheatreHallCapacity: p.TheatreHall.Capacity(),
	}
	if p.Play.Image != "" {
		image := p.Play.Image
		s.PlayImage = &image
	}
	return s
}
