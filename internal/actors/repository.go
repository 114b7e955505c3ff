package actors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, actor *Actor) error
	List(ctx context.Context) ([]Actor, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Actor, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, actor *Actor) error {
	return r.db.WithContext(ctx).Create(actor).Error
}

func (r *repository) List(ctx context.Context) ([]Actor, error) {
	var actors []Actor
	err := r.db.WithContext(ctx).Order("last_name ASC, first_name ASC").Find(&actors).Error
	return actors, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Actor, error) {
	var actors []Actor
	if len(ids) == 0 {
		return actors, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&actors).Error
	return actors, err
}
