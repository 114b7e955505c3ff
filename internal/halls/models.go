package halls

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TheatreHall is a rectangular seat grid. Halls are not updated after creation.
type TheatreHall struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Rows       int       `json:"rows" gorm:"column:num_rows;not null;check:chk_theatre_halls_rows,num_rows > 0"`
	SeatsInRow int       `json:"seats_in_row" gorm:"not null;check:chk_theatre_halls_seats,seats_in_row > 0"`
	CreatedAt  time.Time `json:"created_at"`
}

func (TheatreHall) TableName() string {
	return "theatre_halls"
}

func (h *TheatreHall) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// Capacity is derived from the grid and never stored
func (h TheatreHall) Capacity() int {
	return h.Rows * h.SeatsInRow
}
