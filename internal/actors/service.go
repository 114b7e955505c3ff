package actors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"theatre/internal/shared/constants"
	"theatre/pkg/cache"

	"github.com/google/uuid"
)

var ErrUnknownActor = errors.New("unknown actor")

type Service interface {
	CreateActor(ctx context.Context, req CreateActorRequest) (*ActorResponse, error)
	ListActors(ctx context.Context) ([]ActorResponse, error)
	// Resolve loads every id or fails with ErrUnknownActor
	Resolve(ctx context.Context, ids []uuid.UUID) ([]Actor, error)
}

type service struct {
	repo  Repository
	cache cache.Service
}

func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) CreateActor(ctx context.Context, req CreateActorRequest) (*ActorResponse, error) {
	actor := &Actor{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := s.repo.Create(ctx, actor); err != nil {
		return nil, fmt.Errorf("failed to create actor: %w", err)
	}
	_ = s.cache.Delete(ctx, constants.CACHE_KEY_ACTORS_ALL)

	resp := ToActorResponse(*actor)
	return &resp, nil
}

func (s *service) ListActors(ctx context.Context) ([]ActorResponse, error) {
	var out []ActorResponse
	err := s.cache.GetOrSet(ctx, constants.CACHE_KEY_ACTORS_ALL, constants.TTL_ACTORS_LIST, func() (interface{}, error) {
		actors, err := s.repo.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list actors: %w", err)
		}
		resp := make([]ActorResponse, 0, len(actors))
		for _, a := range actors {
			resp = append(resp, ToActorResponse(a))
		}
		return resp, nil
	}, &out)
	return out, err
}

func (s *service) Resolve(ctx context.Context, ids []uuid.UUID) ([]Actor, error) {
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}

	actors, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load actors: %w", err)
	}
	if len(actors) != len(unique) {
		return nil, ErrUnknownActor
	}
	return actors, nil
}
