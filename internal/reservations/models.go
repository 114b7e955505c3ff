package reservations

import (
	"time"

	"theatre/internal/performances"
	"theatre/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation groups the tickets bought in one request. It belongs to the user
// who created it and is never reassigned.
type Reservation struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_reservations_user_created,priority:1"`
	User      users.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Tickets   []Ticket   `json:"tickets" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at" gorm:"index:idx_reservations_user_created,priority:2"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Ticket is one seat of one performance. No two tickets share
// (performance_id, row_num, seat_num).
type Ticket struct {
	ID            uuid.UUID                `json:"id" gorm:"type:uuid;primaryKey"`
	ReservationID uuid.UUID                `json:"reservation_id" gorm:"type:uuid;not null;index"`
	PerformanceID uuid.UUID                `json:"performance_id" gorm:"type:uuid;not null;uniqueIndex:idx_tickets_performance_seat,priority:1"`
	Performance   performances.Performance `json:"performance" gorm:"foreignKey:PerformanceID;constraint:OnDelete:RESTRICT"`
	Row           int                      `json:"row" gorm:"column:row_num;not null;uniqueIndex:idx_tickets_performance_seat,priority:2"`
	Seat          int                      `json:"seat" gorm:"column:seat_num;not null;uniqueIndex:idx_tickets_performance_seat,priority:3"`
}

func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// SeatRequest asks for one seat of one performance
type SeatRequest struct {
	Row           int
	Seat          int
	PerformanceID uuid.UUID
}
