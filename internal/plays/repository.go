package plays

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, play *Play) error
	List(ctx context.Context, filter Filter, offset, limit int) ([]Play, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Play, error)
	UpdateImage(ctx context.Context, id uuid.UUID, image string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, play *Play) error {
	return r.db.WithContext(ctx).Create(play).Error
}

func (r *repository) List(ctx context.Context, filter Filter, offset, limit int) ([]Play, int64, error) {
	var plays []Play
	var total int64

	base := r.applyFilters(r.db.WithContext(ctx).Model(&Play{}), filter).Session(&gorm.Session{})

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Actors", func(db *gorm.DB) *gorm.DB { return db.Order("last_name ASC, first_name ASC") }).
		Order("plays.title ASC, plays.id ASC").
		Offset(offset).
		Limit(limit).
		Find(&plays).Error

	return plays, total, err
}

// applyFilters matches genres and actors through id subqueries so a play
// linked to several requested ids still appears once
func (r *repository) applyFilters(query *gorm.DB, filter Filter) *gorm.DB {
	if title := strings.TrimSpace(filter.Title); title != "" {
		query = query.Where(`LOWER(plays.title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(title))+"%")
	}

	if len(filter.GenreIDs) > 0 {
		sub := r.db.Table("play_genres").Select("play_id").Where("genre_id IN ?", filter.GenreIDs)
		query = query.Where("plays.id IN (?)", sub)
	}

	if len(filter.ActorIDs) > 0 {
		sub := r.db.Table("play_actors").Select("play_id").Where("actor_id IN ?", filter.ActorIDs)
		query = query.Where("plays.id IN (?)", sub)
	}

	return query
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Play, error) {
	var play Play
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Preload("Actors").
		First(&play, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlayNotFound
		}
		return nil, err
	}
	return &play, nil
}

func (r *repository) UpdateImage(ctx context.Context, id uuid.UUID, image string) error {
	result := r.db.WithContext(ctx).Model(&Play{}).Where("id = ?", id).Update("image", image)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlayNotFound
	}
	return nil
}
