package performances

import (
	"context"
	"sync"
	"testing"
	"time"

	"theatre/internal/actors"
	"theatre/internal/genres"
	"theatre/internal/halls"
	"theatre/internal/plays"
	"theatre/internal/shared/testutil"
	"theatre/pkg/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// testTicket mirrors the columns of the tickets table that this package reads
type testTicket struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	PerformanceID uuid.UUID `gorm:"type:uuid;not null;index"`
	Row           int       `gorm:"column:row_num"`
	Seat          int       `gorm:"column:seat_num"`
}

func (testTicket) TableName() string { return "tickets" }

type fixture struct {
	db    *gorm.DB
	svc   Service
	redis *miniredis.Miniredis
	play  *plays.PlayDetail
	other *plays.PlayDetail
	hall  *halls.HallResponse
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &genres.Genre{}, &actors.Actor{}, &plays.Play{}, &halls.TheatreHall{}, &Performance{}, &testTicket{})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cacheService := cache.NewService(client)

	genreService := genres.NewService(genres.NewRepository(db), cacheService)
	actorService := actors.NewService(actors.NewRepository(db), cacheService)
	playService := plays.NewService(plays.NewRepository(db), genreService, actorService, cacheService)
	hallService := halls.NewService(halls.NewRepository(db), cacheService)

	ctx := context.Background()
	play, err := playService.CreatePlay(ctx, plays.CreatePlayRequest{Title: "Hamlet"})
	require.NoError(t, err)
	other, err := playService.CreatePlay(ctx, plays.CreatePlayRequest{Title: "Macbeth"})
	require.NoError(t, err)
	hall, err := hallService.CreateHall(ctx, halls.CreateHallRequest{Name: "Blue", Rows: 20, SeatsInRow: 20})
	require.NoError(t, err)

	return &fixture{
		db:    db,
		svc:   NewService(NewRepository(db), playService, hallService),
		redis: mr,
		play:  play,
		other: other,
		hall:  hall,
	}
}

func (f *fixture) performance(t *testing.T, play *plays.PlayDetail, showTime time.Time) *PerformanceDetail {
	t.Helper()
	p, err := f.svc.CreatePerformance(context.Background(), PerformanceRequest{
		Play:        play.ID,
		TheatreHall: f.hall.ID,
		ShowTime:    showTime,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(t *testing.T, performanceID uuid.UUID, seats ...[2]int) {
	t.Helper()
	for _, s := range seats {
		require.NoError(t, f.db.Create(&testTicket{ID: uuid.New(), PerformanceID: performanceID, Row: s[0], Seat: s[1]}).Error)
	}
}

func TestCreateAndGetPerformance(t *testing.T) {
	f := newFixture(t)
	show := time.Date(2026, 11, 5, 19, 30, 0, 0, time.UTC)

	p := f.performance(t, f.play, show)
	assert.Equal(t, "Hamlet", p.Play.Title)
	assert.Equal(t, "Blue", p.TheatreHall.Name)
	assert.Equal(t, 400, p.TicketsAvailable)
	assert.Empty(t, p.TakenPlaces)
	assert.True(t, show.Equal(p.ShowTime))
}

func TestCreatePerformanceRejectsUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePerformance(ctx, PerformanceRequest{Play: uuid.New(), TheatreHall: f.hall.ID, ShowTime: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidPerformance)

	_, err = f.svc.CreatePerformance(ctx, PerformanceRequest{Play: f.play.ID, TheatreHall: uuid.New(), ShowTime: time.Now()})
	assert.ErrorIs(t, err, ErrInvalidPerformance)
}

func TestAvailabilityTracksCommittedTickets(t *testing.T) {
	f := newFixture(t)
	p := f.performance(t, f.play, time.Now().Add(24*time.Hour))

	detail, err := f.svc.GetPerformance(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, detail.TicketsAvailable)

	f.sell(t, p.ID, [2]int{2, 3}, [2]int{1, 5}, [2]int{1, 1})

	detail, err = f.svc.GetPerformance(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 397, detail.TicketsAvailable)
	assert.Equal(t, []TakenPlace{{1, 1}, {1, 5}, {2, 3}}, detail.TakenPlaces)

	avail, err := f.svc.GetAvailability(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, avail.Capacity)
	assert.Equal(t, 397, avail.TicketsAvailable)
	assert.Len(t, avail.TakenPlaces, 3)
}

func TestGetAvailabilityCollapsesConcurrentReads(t *testing.T) {
	f := newFixture(t)
	p := f.performance(t, f.play, time.Now())
	f.sell(t, p.ID, [2]int{1, 1})

	var wg sync.WaitGroup
	results := make([]*AvailabilityResponse, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := f.svc.GetAvailability(context.Background(), p.ID)
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, 399, r.TicketsAvailable)
	}
}

func TestGetAvailabilitySeesCommitsImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.performance(t, f.play, time.Now())

	before, err := f.svc.GetAvailability(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, before.TicketsAvailable)

	f.sell(t, p.ID, [2]int{3, 1}, [2]int{3, 2}, [2]int{3, 3})

	after, err := f.svc.GetAvailability(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 397, after.TicketsAvailable)
	assert.Len(t, after.TakenPlaces, 3)

	for _, key := range f.redis.Keys() {
		assert.NotContains(t, key, "performances", "availability must not be stored in Redis")
	}
}

func TestGetAvailabilityIgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t)
	p := f.performance(t, f.play, time.Now())
	f.sell(t, p.ID, [2]int{1, 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	avail, err := f.svc.GetAvailability(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 399, avail.TicketsAvailable)
}

func TestGetAvailabilityUnknownPerformance(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetAvailability(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPerformanceNotFound)
}

func TestListPerformancesFilters(t *testing.T) {
	f := newFixture(t)
	nov5 := time.Date(2026, 11, 5, 19, 0, 0, 0, time.UTC)
	nov5Late := time.Date(2026, 11, 5, 23, 59, 0, 0, time.UTC)
	nov6 := time.Date(2026, 11, 6, 0, 0, 0, 0, time.UTC)

	first := f.performance(t, f.play, nov5)
	f.performance(t, f.other, nov5Late)
	f.performance(t, f.play, nov6)
	f.sell(t, first.ID, [2]int{1, 1}, [2]int{1, 2})

	ctx := context.Background()

	all, err := f.svc.ListPerformances(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 398, all[0].TicketsAvailable)
	assert.Equal(t, 400, all[1].TicketsAvailable)
	assert.Equal(t, "Hamlet", all[0].PlayTitle)
	assert.Equal(t, "Blue", all[0].TheatreHallName)
	assert.Equal(t, 400, all[0].TheatreHallCapacity)

	day := time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC)
	byDate, err := f.svc.ListPerformances(ctx, Filter{Date: &day})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	playID := f.play.ID
	byPlay, err := f.svc.ListPerformances(ctx, Filter{PlayID: &playID})
	require.NoError(t, err)
	assert.Len(t, byPlay, 2)

	both, err := f.svc.ListPerformances(ctx, Filter{Date: &day, PlayID: &playID})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, first.ID, both[0].ID)
}

func TestDeletePerformance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sold := f.performance(t, f.play, time.Now())
	f.sell(t, sold.ID, [2]int{4, 4})
	assert.ErrorIs(t, f.svc.DeletePerformance(ctx, sold.ID), ErrPerformanceHasTickets)

	empty := f.performance(t, f.play, time.Now())
	require.NoError(t, f.svc.DeletePerformance(ctx, empty.ID))
	_, err := f.svc.GetPerformance(ctx, empty.ID)
	assert.ErrorIs(t, err, ErrPerformanceNotFound)

	assert.ErrorIs(t, f.svc.DeletePerformance(ctx, uuid.New()), ErrPerformanceNotFound)
}

func TestUpdatePerformance(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.performance(t, f.play, time.Now())

	later := time.Date(2027, 1, 1, 20, 0, 0, 0, time.UTC)
	updated, err := f.svc.UpdatePerformance(ctx, p.ID, PerformanceRequest{Play: f.other.ID, TheatreHall: f.hall.ID, ShowTime: later})
	require.NoError(t, err)
	assert.Equal(t, "Macbeth", updated.Play.Title)
	assert.True(t, later.Equal(updated.ShowTime))

	_, err = f.svc.UpdatePerformance(ctx, uuid.New(), PerformanceRequest{Play: f.other.ID, TheatreHall: f.hall.ID, ShowTime: later})
	assert.ErrorIs(t, err, ErrPerformanceNotFound)
}
