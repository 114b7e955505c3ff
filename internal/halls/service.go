package halls

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theatre/internal/shared/constants"
	"theatre/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrHallNotFound      = errors.New("theatre hall not found")
	ErrHallAlreadyExists = errors.New("a theatre hall with this name already exists")
	ErrInvalidGeometry   = errors.New("rows and seats_in_row must be positive")
)

type Service interface {
	CreateHall(ctx context.Context, req CreateHallRequest) (*HallResponse, error)
	ListHalls(ctx context.Context) ([]HallResponse, error)
	GetHall(ctx context.Context, id uuid.UUID) (*TheatreHall, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateHall(ctx context.Context, req CreateHallRequest) (*HallResponse, error) {
	if req.Rows < 1 || req.SeatsInRow < 1 {
		return nil, ErrInvalidGeometry
	}

	hall := &TheatreHall{
		Name:       strings.TrimSpace(req.Name),
		Rows:       req.Rows,
		SeatsInRow: req.SeatsInRow,
	}
	if err := s.repo.Create(ctx, hall); err != nil {
		if errors.Is(err, ErrHallAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create theatre hall: %w", err)
	}

	_ = s.cache.Delete(ctx, constants.CACHE_KEY_HALLS_ALL)

	resp := ToHallResponse(*hall)
	return &resp, nil
}

func (s *service) ListHalls(ctx context.Context) ([]HallResponse, error) {
	var halls []HallResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_HALLS_ALL, constants.TTL_HALLS_LIST, func() (interface{}, error) {
		rows, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list theatre halls: %w", err)
		}
		out := make([]HallResponse, 0, len(rows))
		for _, h := range rows {
			out = append(out, ToHallResponse(h))
		}
		return out, nil
	}, &halls)
	return halls, err
}

func (s *service) GetHall(ctx context.Context, id uuid.UUID) (*TheatreHall, error) {
	return s.repo.GetByID(ctx, id)
}
