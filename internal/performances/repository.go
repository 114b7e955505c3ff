package performances

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ticketsTable is written by reservations; this package only reads it
const ticketsTable = "tickets"

type Repository interface {
	Create(ctx context.Context, performance *Performance) error
	Update(ctx context.Context, performance *Performance) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Performance, error)
	List(ctx context.Context, filter Filter) ([]Performance, error)
	CountTickets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	TakenPlaces(ctx context.Context, id uuid.UUID) ([]TakenPlace, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, performance *Performance) error {
	return r.db.WithContext(ctx).Omit("Play", "TheatreHall").Create(performance).Error
}

func (r *repository) Update(ctx context.Context, performance *Performance) error {
	return r.db.WithContext(ctx).Model(&Performance{ID: performance.ID}).
		Updates(map[string]interface{}{
			"play_id":         performance.PlayID,
			"theatre_hall_id": performance.TheatreHallID,
			"show_time":       performance.ShowTime,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Performance{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ErrPerformanceHasTickets
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPerformanceNotFound
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Performance, error) {
	var performance Performance
	err := r.db.WithContext(ctx).
		Preload("Play.Genres").
		Preload("Play.Actors").
		Preload("TheatreHall").
		First(&performance, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPerformanceNotFound
		}
		return nil, err
	}
	return &performance, nil
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Performance, error) {
	var performances []Performance

	query := r.db.WithContext(ctx).
		Preload("Play").
		Preload("TheatreHall")

	if filter.Date != nil {
		start := *filter.Date
		query = query.Where("show_time >= ? AND show_time < ?", start, start.AddDate(0, 0, 1))
	}
	if filter.PlayID != nil {
		query = query.Where("play_id = ?", *filter.PlayID)
	}

	err := query.Order("show_time ASC, id ASC").Find(&performances).Error
	return performances, err
}

// CountTickets returns committed ticket counts per performance; performances
// without tickets are absent from the map
func (r *repository) CountTickets(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		PerformanceID uuid.UUID
		Taken         int64
	}
	err := r.db.WithContext(ctx).
		Table(ticketsTable).
		Select("performance_id, COUNT(*) AS taken").
		Where("performance_id IN ?", ids).
		Group("performance_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PerformanceID] = row.Taken
	}
	return counts, nil
}

func (r *repository) TakenPlaces(ctx context.Context, id uuid.UUID) ([]TakenPlace, error) {
	places := []TakenPlace{}
	err := r.db.WithContext(ctx).
		Table(ticketsTable).
		Select("row_num, seat_num").
		Where("performance_id = ?", id).
		Order("row_num ASC, seat_num ASC").
		Scan(&places).Error
	return places, err
}
