package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"theatre/internal/shared/config"
	"theatre/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres codes worth another attempt
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

type Service interface {
	CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error)
	ListReservations(ctx context.Context, userID uuid.UUID, offset, limit int) ([]ReservationResponse, int64, error)
}

type service struct {
	repo      Repository
	locker    Locker
	publisher EventPublisher
	log       *logger.Logger
	config    config.ReservationConfig
}

// NewService wires the reservation flow. A nil publisher disables events.
func NewService(repo Repository, locker Locker, publisher EventPublisher, log *logger.Logger, cfg config.ReservationConfig) Service {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &service{
		repo:      repo,
		locker:    locker,
		publisher: publisher,
		log:       log,
		config:    cfg,
	}
}

func (s *service) CreateReservation(ctx context.Context, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	requests := req.SeatRequests()
	if len(requests) == 0 {
		return nil, ErrEmptyReservation
	}

	performanceIDs := make([]uuid.UUID, 0, len(requests))
	for _, r := range requests {
		performanceIDs = append(performanceIDs, r.PerformanceID)
	}

	var created *Reservation
	var err error
	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		created, err = s.attempt(ctx, userID, performanceIDs, requests)
		if err == nil || !isTransient(err) || attempt == s.config.MaxAttempts {
			break
		}

		s.log.LogReservationRetry(ctx, userID.String(), attempt, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * s.config.RetryBackoff):
		}
	}
	if err != nil {
		var seatErr *SeatError
		if errors.As(err, &seatErr) && seatErr.Kind != KindNotFound {
			s.log.LogSeatConflict(ctx, seatErr.PerformanceID.String(), seatErr.Row, seatErr.Seat, string(seatErr.Kind))
		}
		return nil, err
	}

	// The reservation is committed; a failed reload must not report it as failed
	reservation, err := s.repo.GetByID(ctx, created.ID)
	if err != nil {
		s.log.ErrorWithContext(ctx, "Failed to reload reservation", err, map[string]interface{}{
			"reservation_id": created.ID.String(),
		})
		reservation = created
		for i := range reservation.Tickets {
			reservation.Tickets[i].Performance.ID = reservation.Tickets[i].PerformanceID
		}
	}

	if err := s.publisher.PublishReservationCreated(ctx, newCreatedEvent(reservation)); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to publish reservation event", err, map[string]interface{}{
			"reservation_id": reservation.ID.String(),
		})
	}
	s.log.LogReservationCreated(ctx, reservation.ID.String(), userID.String(), len(reservation.Tickets))

	resp := ToReservationResponse(*reservation)
	return &resp, nil
}

func (s *service) attempt(ctx context.Context, userID uuid.UUID, performanceIDs []uuid.UUID, requests []SeatRequest) (*Reservation, error) {
	unlock, err := s.locker.Lock(ctx, performanceIDs)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.repo.Create(ctx, userID, requests)
}

func (s *service) ListReservations(ctx context.Context, userID uuid.UUID, offset, limit int) ([]ReservationResponse, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrUnauthorized
	}

	rows, total, err := s.repo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}

	out := make([]ReservationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToReservationResponse(r))
	}
	return out, total, nil
}

// isTransient reports failures that a fresh attempt may not hit again
func isTransient(err error) bool {
	if errors.Is(err, ErrLockBusy) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}
