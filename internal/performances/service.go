package performances

import (
	"context"
	"errors"
	"fmt"

	"theatre/internal/halls"
	"theatre/internal/plays"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	ErrPerformanceNotFound   = errors.New("performance not found")
	ErrInvalidPerformance    = errors.New("invalid performance")
	ErrPerformanceHasTickets = errors.New("performance already has tickets")
)

type Service interface {
	CreatePerformance(ctx context.Context, req PerformanceRequest) (*PerformanceDetail, error)
	UpdatePerformance(ctx context.Context, id uuid.UUID, req PerformanceRequest) (*PerformanceDetail, error)
	DeletePerformance(ctx context.Context, id uuid.UUID) error
	GetPerformance(ctx context.Context, id uuid.UUID) (*PerformanceDetail, error)
	ListPerformances(ctx context.Context, filter Filter) ([]PerformanceListItem, error)
	GetAvailability(ctx context.Context, id uuid.UUID) (*AvailabilityResponse, error)
}

type service struct {
	repo   Repository
	plays  plays.Service
	halls  halls.Service
	flight singleflight.Group
}

func NewService(repo Repository, playService plays.Service, hallService halls.Service) Service {
	return &service{
		repo:  repo,
		plays: playService,
		halls: hallService,
	}
}

func (s *service) CreatePerformance(ctx context.Context, req PerformanceRequest) (*PerformanceDetail, error) {
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	performance := &Performance{
		PlayID:        req.Play,
		TheatreHallID: req.TheatreHall,
		ShowTime:      req.ShowTime.UTC(),
	}
	if err := s.repo.Create(ctx, performance); err != nil {
		return nil, fmt.Errorf("failed to create performance: %w", err)
	}

	return s.GetPerformance(ctx, performance.ID)
}

func (s *service) UpdatePerformance(ctx context.Context, id uuid.UUID, req PerformanceRequest) (*PerformanceDetail, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, req); err != nil {
		return nil, err
	}

	if req.TheatreHall != current.TheatreHallID {
		counts, err := s.repo.CountTickets(ctx, []uuid.UUID{id})
		if err != nil {
			return nil, fmt.Errorf("failed to count tickets: %w", err)
		}
		// Moving sold seats to another grid could put them out of bounds
		if counts[id] > 0 {
			return nil, ErrPerformanceHasTickets
		}
	}

	current.PlayID = req.Play
	current.TheatreHallID = req.TheatreHall
	current.ShowTime = req.ShowTime.UTC()
	if err := s.repo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to update performance: %w", err)
	}

	return s.GetPerformance(ctx, id)
}

func (s *service) DeletePerformance(ctx context.Context, id uuid.UUID) error {
	counts, err := s.repo.CountTickets(ctx, []uuid.UUID{id})
	if err != nil {
		return fmt.Errorf("failed to count tickets: %w", err)
	}
	if counts[id] > 0 {
		return ErrPerformanceHasTickets
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetPerformance(ctx context.Context, id uuid.UUID) (*PerformanceDetail, error) {
	performance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	places, err := s.repo.TakenPlaces(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load taken places: %w", err)
	}
	available, err := Available(performance.TheatreHall, int64(len(places)))
	if err != nil {
		return nil, err
	}

	return &PerformanceDetail{
		ID:               performance.ID,
		Play:             plays.ToPlayDetail(performance.Play),
		TheatreHall:      halls.ToHallResponse(performance.TheatreHall),
		ShowTime:         performance.ShowTime,
		TicketsAvailable: available,
		TakenPlaces:      places,
	}, nil
}

func (s *service) ListPerformances(ctx context.Context, filter Filter) ([]PerformanceListItem, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list performances: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	counts, err := s.repo.CountTickets(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	items := make([]PerformanceListItem, 0, len(rows))
	for _, p := range rows {
		available, err := Available(p.TheatreHall, counts[p.ID])
		if err != nil {
			return nil, err
		}
		items = append(items, PerformanceListItem{Summary: ToSummary(p), TicketsAvailable: available})
	}
	return items, nil
}

// GetAvailability collapses concurrent reads of the same performance into one
// query. The result is never stored; every call after a commit sees it.
func (s *service) GetAvailability(ctx context.Context, id uuid.UUID) (*AvailabilityResponse, error) {
	// Shared by every waiter, so one caller's cancellation must not fail the rest
	shared := context.WithoutCancel(ctx)

	v, err, _ := s.flight.Do(id.String(), func() (interface{}, error) {
		return s.loadAvailability(shared, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*AvailabilityResponse), nil
}

func (s *service) loadAvailability(ctx context.Context, id uuid.UUID) (*AvailabilityResponse, error) {
	performance, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	places, err := s.repo.TakenPlaces(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load taken places: %w", err)
	}

	available, err := Available(performance.TheatreHall, int64(len(places)))
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{
		PerformanceID:    id,
		Capacity:         performance.TheatreHall.Capacity(),
		TicketsAvailable: available,
		TakenPlaces:      places,
	}, nil
}

func (s *service) checkReferences(ctx context.Context, req PerformanceRequest) error {
	if req.ShowTime.IsZero() {
		return fmt.Errorf("%w: show_time is required", ErrInvalidPerformance)
	}
	if _, err := s.plays.GetPlay(ctx, req.Play); err != nil {
		if errors.Is(err, plays.ErrPlayNotFound) {
			return fmt.Errorf("%w: %v", ErrInvalidPerformance, err)
		}
		return err
	}
	if _, err := s.halls.GetHall(ctx, req.TheatreHall); err != nil {
		if errors.Is(err, halls.ErrHallNotFound) {
			return fmt.Errorf("%w: %v", ErrInvalidPerformance, err)
		}
		return err
	}
	return nil
}
