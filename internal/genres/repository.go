package genres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, genre *Genre) error
	List(ctx context.Context) ([]Genre, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Genre, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, genre *Genre) error {
	err := r.db.WithContext(ctx).Create(genre).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrGenreAlreadyExists
	}
	return err
}

func (r *repository) List(ctx context.Context) ([]Genre, error) {
	var genres []Genre
	err := r.db.WithContext(ctx).Order("name ASC").Find(&genres).Error
	return genres, err
}

func (r *repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Genre, error) {
	var genres []Genre
	if len(ids) == 0 {
		return genres, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&genres).Error
	return genres, err
}
