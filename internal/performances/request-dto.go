package performances

import (
	"time"

	"github.com/google/uuid"
)

type PerformanceRequest struct {
	Play        uuid.UUID `json:"play" binding:"required"`
	TheatreHall uuid.UUID `json:"theatre_hall" binding:"required"`
	ShowTime    time.Time `json:"show_time" binding:"required"`
}
