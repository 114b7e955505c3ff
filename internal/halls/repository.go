package halls

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, hall *TheatreHall) error
	List(ctx context.Context) ([]TheatreHall, error)
	GetByID(ctx context.Context, id uuid.UUID) (*TheatreHall, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, hall *TheatreHall) error {
	err := r.db.WithContext(ctx).Create(hall).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrHallAlreadyExists
	}
	return err
}

func (r *repository) List(ctx context.Context) ([]TheatreHall, error) {
	var halls []TheatreHall
	err := r.db.WithContext(ctx).Order("name ASC").Find(&halls).Error
	return halls, err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*TheatreHall, error) {
	var hall TheatreHall
	err := r.db.WithContext(ctx).First(&hall, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &hall, nil
}
