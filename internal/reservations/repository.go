package reservations

import (
	"context"
	"errors"
	"fmt"

	"theatre/internal/halls"
	"theatre/internal/performances"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Create validates and stores a whole reservation in one transaction
	Create(ctx context.Context, userID uuid.UUID, requests []SeatRequest) (*Reservation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Reservation, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID uuid.UUID, requests []SeatRequest) (*Reservation, error) {
	ids := make([]uuid.UUID, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.PerformanceID)
	}
	ids = sortedUnique(ids)

	var reservation *Reservation
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Lock the performance rows, in id order
		var shows []performances.Performance
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).
			Order("id").
			Find(&shows).Error
		if err != nil {
			return fmt.Errorf("failed to lock performances: %w", err)
		}

		hallIDs := make([]uuid.UUID, 0, len(shows))
		for _, show := range shows {
			hallIDs = append(hallIDs, show.TheatreHallID)
		}
		var hallRows []halls.TheatreHall
		if len(hallIDs) > 0 {
			if err := tx.Where("id IN ?", hallIDs).Find(&hallRows).Error; err != nil {
				return fmt.Errorf("failed to load theatre halls: %w", err)
			}
		}
		hallByID := make(map[uuid.UUID]halls.TheatreHall, len(hallRows))
		for _, h := range hallRows {
			hallByID[h.ID] = h
		}
		hallByPerformance := make(map[uuid.UUID]halls.TheatreHall, len(shows))
		for _, show := range shows {
			hallByPerformance[show.ID] = hallByID[show.TheatreHallID]
		}

		// 2. Snapshot committed seats while the rows are locked
		allocator := NewAllocator(hallByPerformance)
		var taken []Ticket
		if err := tx.Select("performance_id", "row_num", "seat_num").
			Where("performance_id IN ?", ids).
			Find(&taken).Error; err != nil {
			return fmt.Errorf("failed to load taken seats: %w", err)
		}
		for _, t := range taken {
			allocator.MarkTaken(t.PerformanceID, t.Row, t.Seat)
		}

		// 3. Validate every request in order; the first failure aborts everything
		for _, req := range requests {
			if err := allocator.Stage(req); err != nil {
				return err
			}
		}

		// 4. Persist
		res := &Reservation{UserID: userID}
		if err := tx.Omit(clause.Associations).Create(res).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		for _, ticket := range allocator.Staged() {
			ticket.ReservationID = res.ID
			if err := tx.Omit(clause.Associations).Create(&ticket).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return seatTaken(SeatRequest{Row: ticket.Row, Seat: ticket.Seat, PerformanceID: ticket.PerformanceID}, err)
				}
				return fmt.Errorf("failed to create ticket: %w", err)
			}
			res.Tickets = append(res.Tickets, ticket)
		}

		reservation = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.withTickets(r.db.WithContext(ctx)).First(&reservation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reservation %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]Reservation, int64, error) {
	base := r.db.WithContext(ctx).Model(&Reservation{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reservations []Reservation
	err := r.withTickets(base.Session(&gorm.Session{})).
		Order("created_at DESC").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		return nil, 0, err
	}
	return reservations, total, nil
}

func (r *repository) withTickets(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Tickets", func(db *gorm.DB) *gorm.DB {
			return db.Order("row_num").Order("seat_num")
		}).
		Preload("Tickets.Performance.Play").
		Preload("Tickets.Performance.TheatreHall")
}
