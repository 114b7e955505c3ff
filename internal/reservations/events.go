package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const EventReservationCreated = "reservation.created"

// ReservationCreatedEvent is published once a reservation is committed
type ReservationCreatedEvent struct {
	Type          string        `json:"type"`
	ReservationID uuid.UUID     `json:"reservation_id"`
	UserID        uuid.UUID     `json:"user_id"`
	CreatedAt     time.Time     `json:"created_at"`
	Tickets       []EventTicket `json:"tickets"`
}

type EventTicket struct {
	TicketID        uuid.UUID `json:"ticket_id"`
	PerformanceID   uuid.UUID `json:"performance_id"`
	Row             int       `json:"row"`
	Seat            int       `json:"seat"`
	PlayTitle       string    `json:"play_title"`
	TheatreHallName string    `json:"theatre_hall_name"`
	ShowTime        time.Time `json:"show_time"`
}

// EventPublisher delivers reservation events (implemented by notifications, kept
// as an interface to avoid a circular dependency)
type EventPublisher interface {
	PublishReservationCreated(ctx context.Context, event ReservationCreatedEvent) error
}

type noopPublisher struct{}

func (noopPublisher) PublishReservationCreated(context.Context, ReservationCreatedEvent) error {
	return nil
}

func newCreatedEvent(r *Reservation) ReservationCreatedEvent {
	event := ReservationCreatedEvent{
		Type:          EventReservationCreated,
		ReservationID: r.ID,
		UserID:        r.UserID,
		CreatedAt:     r.CreatedAt,
		Tickets:       make([]EventTicket, 0, len(r.Tickets)),
	}
	for _, t := range r.Tickets {
		event.Tickets = append(event.Tickets, EventTicket{
			TicketID:        t.ID,
			PerformanceID:   t.PerformanceID,
			Row:             t.Row,
			Seat:            t.Seat,
			PlayTitle:       t.Performance.Play.Title,
			TheatreHallName: t.Performance.TheatreHall.Name,
			ShowTime:        t.Performance.ShowTime,
		})
	}
	return event
}
