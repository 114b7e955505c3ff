package performances

import (
	"time"

	"theatre/internal/halls"
	"theatre/internal/plays"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Performance is one showing of a play. Its seat universe is its hall's grid.
type Performance struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	PlayID        uuid.UUID         `json:"play_id" gorm:"type:uuid;not null;index"`
	Play          plays.Play        `json:"play" gorm:"foreignKey:PlayID;constraint:OnDelete:CASCADE"`
	TheatreHallID uuid.UUID         `json:"theatre_hall_id" gorm:"type:uuid;not null;index"`
	TheatreHall   halls.TheatreHall `json:"theatre_hall" gorm:"foreignKey:TheatreHallID;constraint:OnDelete:RESTRICT"`
	ShowTime      time.Time         `json:"show_time" gorm:"not null;index"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (p *Performance) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TakenPlace is an occupied coordinate, without the ticket identity
type TakenPlace struct {
	Row  int `json:"row" gorm:"column:row_num"`
	Seat int `json:"seat" gorm:"column:seat_num"`
}

type Filter struct {
	// Date matches the calendar day of the show time, in UTC
	Date   *time.Time
	PlayID *uuid.UUID
}
