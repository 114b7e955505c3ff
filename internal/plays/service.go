package plays

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theatre/internal/actors"
	"theatre/internal/genres"
	"theatre/internal/shared/constants"
	"theatre/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrPlayNotFound = errors.New("play not found")
	ErrInvalidPlay  = errors.New("invalid play")
)

type Service interface {
	CreatePlay(ctx context.Context, req CreatePlayRequest) (*PlayDetail, error)
	ListPlays(ctx context.Context, filter Filter, offset, limit int) ([]PlayListItem, int64, error)
	GetPlay(ctx context.Context, id uuid.UUID) (*PlayDetail, error)
	SetImage(ctx context.Context, id uuid.UUID, image string) error
}

type service struct {
	repo   Repository
	genres genres.Service
	actors actors.Service
	cache  cache.Service
}

func NewService(repo Repository, genreService genres.Service, actorService actors.Service, cacheService cache.Service) Service {
	return &service{
		repo:   repo,
		genres: genreService,
		actors: actorService,
		cache:  cacheService,
	}
}

func (s *service) CreatePlay(ctx context.Context, req CreatePlayRequest) (*PlayDetail, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidPlay)
	}

	playGenres, err := s.genres.Resolve(ctx, req.Genres)
	if err != nil {
		if errors.Is(err, genres.ErrUnknownGenre) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlay, err)
		}
		return nil, err
	}

	playActors, err := s.actors.Resolve(ctx, req.Actors)
	if err != nil {
		if errors.Is(err, actors.ErrUnknownActor) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPlay, err)
		}
		return nil, err
	}

	play := &Play{
		Title:       title,
		Description: req.Description,
		Genres:      playGenres,
		Actors:      playActors,
	}
	if err := s.repo.Create(ctx, play); err != nil {
		return nil, fmt.Errorf("failed to create play: %w", err)
	}

	detail := ToPlayDetail(*play)
	return &detail, nil
}

func (s *service) ListPlays(ctx context.Context, filter Filter, offset, limit int) ([]PlayListItem, int64, error) {
	rows, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list plays: %w", err)
	}

	items := make([]PlayListItem, 0, len(rows))
	for _, p := range rows {
		items = append(items, ToPlayListItem(p))
	}
	return items, total, nil
}

func (s *service) GetPlay(ctx context.Context, id uuid.UUID) (*PlayDetail, error) {
	var detail PlayDetail
	err := s.cache.GetOrSet(ctx, constants.BuildPlayDetailKey(id.String()), constants.TTL_PLAY_DETAIL, func() (interface{}, error) {
		play, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return ToPlayDetail(*play), nil
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) SetImage(ctx context.Context, id uuid.UUID, image string) error {
	if err := s.repo.UpdateImage(ctx, id, image); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, constants.BuildPlayDetailKey(id.String()))
	return nil
}
