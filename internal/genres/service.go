package genres

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
	ErrGenreAlreadyExists = errors.New("a genre with this name already exists")
	ErrUnknownGenre       = errors.New("unknown genre")
)

type Service interface {
	CreateGenre(ctx context.Context, req CreateGenreRequest) (*Genre, error)
	ListGenres(ctx context.Context) ([]Genre, error)
	// Resolve loads every id or fails with ErrUnknownGenre
	Resolve(ctx context.Context, ids []uuid.UUID) ([]Genre, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateGenre(ctx context.Context, req CreateGenreRequest) (*Genre, error) {
	genre := &Genre{Name: strings.TrimSpace(req.Name)}
	if err := s.repo.Create(ctx, genre); err != nil {
		if errors.Is(err, ErrGenreAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_GENRES_ALL)
	return genre, nil
}

func (s *service) ListGenres(ctx context.Context) ([]Genre, error) {
	var out []Genre
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_GENRES_ALL, constants.TTL_GENRES_LIST, func() (interface{}, error) {
		genres, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list genres: %w", err)
		}
		return genres, nil
	}, &out)
	return out, err
}

func (s *service) Resolve(ctx context.Context, ids []uuid.UUID) ([]Genre, error) {
	ids = dedupe(ids)
	genres, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load genres: %w", err)
	}
	if len(genres) != len(ids) {
		return nil, ErrUnknownGenre
	}
	return genres, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
