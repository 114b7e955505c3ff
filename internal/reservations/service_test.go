package reservations

import (
	"context"
	"sync"
	"testing"
	"time"

	"theatre/internal/actors"
	"theatre/internal/genres"
	"theatre/internal/halls"
	"theatre/internal/performances"
	"theatre/internal/plays"
	"theatre/internal/shared/config"
	"theatre/internal/shared/testutil"
	"theatre/internal/users"
	"theatre/pkg/cache"
	"theatre/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ReservationCreatedEvent
	err    error
}

func (p *recordingPublisher) PublishReservationCreated(_ context.Context, event ReservationCreatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fixture struct {
	db           *gorm.DB
	repo         Repository
	svc          Service
	performances performances.Service
	publisher    *recordingPublisher
	alice        uuid.UUID
	bob          uuid.UUID
	hamlet       *performances.PerformanceDetail
	macbeth      *performances.PerformanceDetail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t,
		&users.User{}, &genres.Genre{}, &actors.Actor{}, &plays.Play{},
		&halls.TheatreHall{}, &performances.Performance{}, &Reservation{}, &Ticket{},
	)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cacheService := cache.NewService(client)

	genreService := genres.NewService(genres.NewRepository(db), cacheService)
	actorService := actors.NewService(actors.NewRepository(db), cacheService)
	playService := plays.NewService(plays.NewRepository(db), genreService, actorService, cacheService)
	hallService := halls.NewService(halls.NewRepository(db), cacheService)
	performanceService := performances.NewService(performances.NewRepository(db), playService, hallService)

	ctx := context.Background()
	hall, err := hallService.CreateHall(ctx, halls.CreateHallRequest{Name: "Blue", Rows: 20, SeatsInRow: 20})
	require.NoError(t, err)
	hamletPlay, err := playService.CreatePlay(ctx, plays.CreatePlayRequest{Title: "Hamlet"})
	require.NoError(t, err)
	macbethPlay, err := playService.CreatePlay(ctx, plays.CreatePlayRequest{Title: "Macbeth"})
	require.NoError(t, err)

	show := time.Date(2026, 11, 5, 19, 30, 0, 0, time.UTC)
	hamlet, err := performanceService.CreatePerformance(ctx, performances.PerformanceRequest{Play: hamletPlay.ID, TheatreHall: hall.ID, ShowTime: show})
	require.NoError(t, err)
	macbeth, err := performanceService.CreatePerformance(ctx, performances.PerformanceRequest{Play: macbethPlay.ID, TheatreHall: hall.ID, ShowTime: show.Add(24 * time.Hour)})
	require.NoError(t, err)

	alice := &users.User{FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", Password: "x"}
	bob := &users.User{FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", Password: "x"}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	publisher := &recordingPublisher{}
	repo := NewRepository(db)
	cfg := testutil.Config().Reservation

	return &fixture{
		db:           db,
		repo:         repo,
		svc:          NewService(repo, NewLocalLocker(), publisher, logger.Discard(), cfg),
		performances: performanceService,
		publisher:    publisher,
		alice:        alice.ID,
		bob:          bob.ID,
		hamlet:       hamlet,
		macbeth:      macbeth,
	}
}

func tickets(performanceID uuid.UUID, seats ...[2]int) CreateReservationRequest {
	req := CreateReservationRequest{}
	for _, s := range seats {
		req.Tickets = append(req.Tickets, TicketRequest{Row: s[0], Seat: s[1], Performance: performanceID})
	}
	return req
}

func (f *fixture) ticketCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&Ticket{}).Count(&n).Error)
	return n
}

func (f *fixture) reservationCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&Reservation{}).Count(&n).Error)
	return n
}

func TestReservationReducesAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.performances.GetAvailability(ctx, f.hamlet.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, before.TicketsAvailable)

	res, err := f.svc.CreateReservation(ctx, f.alice, tickets(f.hamlet.ID, [2]int{1, 1}, [2]int{1, 2}, [2]int{5, 10}))
	require.NoError(t, err)
	require.Len(t, res.Tickets, 3)
	assert.Equal(t, 1, res.Tickets[0].Row)
	assert.Equal(t, "Hamlet", res.Tickets[0].Performance.PlayTitle)
	assert.Equal(t, "Blue", res.Tickets[0].Performance.TheatreHallName)
	assert.Equal(t, 400, res.Tickets[0].Performance.TheatreHallCapacity)
	assert.False(t, res.CreatedAt.IsZero())

	// The cached availability was invalidated by the reservation
	after, err := f.performances.GetAvailability(ctx, f.hamlet.ID)
	require.NoError(t, err)
	assert.Equal(t, 397, after.TicketsAvailable)
	assert.Equal(t, []performances.TakenPlace{{Row: 1, Seat: 1}, {Row: 1, Seat: 2}, {Row: 5, Seat: 10}}, after.TakenPlaces)

	for _, seat := range [][2]int{{1, 1}, {1, 2}, {5, 10}} {
		_, err := f.svc.CreateReservation(ctx, f.bob, tickets(f.hamlet.ID, seat))
		assert.ErrorIs(t, err, ErrSeatTaken)
	}

	other, err := f.performances.GetAvailability(ctx, f.macbeth.ID)
	require.NoError(t, err)
	assert.Equal(t, 400, other.TicketsAvailable)
}

func TestSequentialRequestsForSameSeat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReservation(ctx, f.alice, tickets(f.hamlet.ID, [2]int{4, 4}))
	require.NoError(t, err)

	_, err = f.svc.CreateReservation(ctx, f.bob, tickets(f.hamlet.ID, [2]int{4, 4}))
	var seatErr *SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, KindSeatTaken, seatErr.Kind)
	assert.Equal(t, 4, seatErr.Row)
	assert.Equal(t, 4, seatErr.Seat)
	assert.Equal(t, f.hamlet.ID, seatErr.PerformanceID)
}

func TestInvalidSeatCommitsNothing(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{1, 1}, [2]int{999, 1}))

	var seatErr *SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, KindOutOfBounds, seatErr.Kind)
	assert.Equal(t, 999, seatErr.Row)
	assert.Contains(t, err.Error(), "999")
	assert.Contains(t, err.Error(), "20")

	assert.Zero(t, f.ticketCount(t))
	assert.Zero(t, f.reservationCount(t))
	assert.Empty(t, f.publisher.events)
}

func TestEmptyReservation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateReservation(context.Background(), f.alice, CreateReservationRequest{})

	assert.ErrorIs(t, err, ErrEmptyReservation)
	assert.Equal(t, KindEmptyReservation, KindOf(err))
	assert.Zero(t, f.reservationCount(t))
}

func TestUnknownPerformance(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	req := tickets(f.hamlet.ID, [2]int{1, 1})
	req.Tickets = append(req.Tickets, TicketRequest{Row: 1, Seat: 1, Performance: missing})
	_, err := f.svc.CreateReservation(context.Background(), f.alice, req)

	var seatErr *SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, KindNotFound, seatErr.Kind)
	assert.Equal(t, missing, seatErr.PerformanceID)
	assert.Zero(t, f.ticketCount(t))
}

func TestReservationSpanningPerformances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := tickets(f.hamlet.ID, [2]int{2, 2})
	req.Tickets = append(req.Tickets, TicketRequest{Row: 2, Seat: 2, Performance: f.macbeth.ID})

	res, err := f.svc.CreateReservation(ctx, f.alice, req)
	require.NoError(t, err)
	assert.Len(t, res.Tickets, 2)

	// The same coordinate is independent per performance, but not within one
	req.Tickets = append(req.Tickets[:1], TicketRequest{Row: 3, Seat: 3, Performance: f.macbeth.ID})
	_, err = f.svc.CreateReservation(ctx, f.bob, req)
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.EqualValues(t, 2, f.ticketCount(t))
}

func TestConcurrentRequestsForSameSeat(t *testing.T) {
	f := newFixture(t)

	const clients = 8
	var g errgroup.Group
	errs := make([]error, clients)
	for i := 0; i < clients; i++ {
		user := f.alice
		if i%2 == 1 {
			user = f.bob
		}
		g.Go(func() error {
			_, errs[i] = f.svc.CreateReservation(context.Background(), user, tickets(f.hamlet.ID, [2]int{7, 7}))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSeatTaken)
	}
	assert.Equal(t, 1, succeeded)
	assert.EqualValues(t, 1, f.ticketCount(t))

	avail, err := f.performances.GetAvailability(context.Background(), f.hamlet.ID)
	require.NoError(t, err)
	assert.Equal(t, 399, avail.TicketsAvailable)
}

func TestTicketsUniqueIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.repo.Create(ctx, f.alice, []SeatRequest{{Row: 9, Seat: 9, PerformanceID: f.hamlet.ID}})
	require.NoError(t, err)

	// A row that slipped past the snapshot still hits the unique index
	err = f.db.Create(&Ticket{ReservationID: res.ID, PerformanceID: f.hamlet.ID, Row: 9, Seat: 9}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestInsertConflictReportsSeatTaken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	earlier, err := f.repo.Create(ctx, f.bob, []SeatRequest{{Row: 1, Seat: 1, PerformanceID: f.hamlet.ID}})
	require.NoError(t, err)

	// Another writer takes row 4 seat 4 after the snapshot, just before our insert
	taken := false
	err = f.db.Callback().Create().Before("gorm:create").Register("test:take_seat", func(tx *gorm.DB) {
		if taken || tx.Statement.Table != "tickets" {
			return
		}
		taken = true
		rival := &Ticket{ReservationID: earlier.ID, PerformanceID: f.hamlet.ID, Row: 4, Seat: 4}
		if err := tx.Session(&gorm.Session{NewDB: true}).Omit(clause.Associations).Create(rival).Error; err != nil {
			t.Errorf("inserting rival ticket: %v", err)
		}
	})
	require.NoError(t, err)

	_, err = f.repo.Create(ctx, f.alice, []SeatRequest{{Row: 4, Seat: 4, PerformanceID: f.hamlet.ID}})
	require.True(t, taken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var seatErr *SeatError
	require.ErrorAs(t, err, &seatErr)
	assert.Equal(t, KindSeatTaken, seatErr.Kind)
	assert.Equal(t, 4, seatErr.Row)
	assert.Equal(t, 4, seatErr.Seat)
	assert.Equal(t, f.hamlet.ID, seatErr.PerformanceID)

	// The whole transaction rolled back, rival insert included
	assert.EqualValues(t, 1, f.ticketCount(t))
	assert.EqualValues(t, 1, f.reservationCount(t))
}

// reloadFailingRepository commits normally but cannot read reservations back
type reloadFailingRepository struct {
	Repository
}

func (reloadFailingRepository) GetByID(context.Context, uuid.UUID) (*Reservation, error) {
	return nil, assert.AnError
}

func TestReloadFailureStillReturnsCommittedReservation(t *testing.T) {
	f := newFixture(t)
	svc := NewService(reloadFailingRepository{f.repo}, NewLocalLocker(), f.publisher, logger.Discard(), testutil.Config().Reservation)

	res, err := svc.CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{2, 2}, [2]int{2, 3}))
	require.NoError(t, err)
	require.Len(t, res.Tickets, 2)
	assert.Equal(t, f.hamlet.ID, res.Tickets[0].Performance.ID)
	assert.EqualValues(t, 2, f.ticketCount(t))
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, res.ID, f.publisher.events[0].ReservationID)
}

func TestDeletingReservationCascadesToTickets(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.CreateReservation(ctx, f.alice, tickets(f.hamlet.ID, [2]int{1, 1}, [2]int{1, 2}))
	require.NoError(t, err)
	require.EqualValues(t, 2, f.ticketCount(t))

	require.NoError(t, f.db.Delete(&Reservation{}, "id = ?", res.ID).Error)
	assert.Zero(t, f.ticketCount(t))
}

func TestPerformanceWithTicketsCannotBeDeleted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateReservation(ctx, f.alice, tickets(f.hamlet.ID, [2]int{1, 1}))
	require.NoError(t, err)

	err = f.performances.DeletePerformance(ctx, f.hamlet.ID)
	assert.ErrorIs(t, err, performances.ErrPerformanceHasTickets)
}

func TestListReservationsOnlyReturnsOwn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateReservation(ctx, f.alice, tickets(f.hamlet.ID, [2]int{1, 1}))
	require.NoError(t, err)
	second, err := f.svc.CreateReservation(ctx, f.alice, tickets(f.hamlet.ID, [2]int{1, 2}))
	require.NoError(t, err)
	_, err = f.svc.CreateReservation(ctx, f.bob, tickets(f.hamlet.ID, [2]int{1, 3}))
	require.NoError(t, err)

	items, total, err := f.svc.ListReservations(ctx, f.alice, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.Equal(t, "Hamlet", items[0].Tickets[0].Performance.PlayTitle)

	_, _, err = f.svc.ListReservations(ctx, uuid.Nil, 0, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReservationPublishesEvent(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{6, 6}))
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, EventReservationCreated, event.Type)
	assert.Equal(t, res.ID, event.ReservationID)
	assert.Equal(t, f.alice, event.UserID)
	require.Len(t, event.Tickets, 1)
	assert.Equal(t, "Hamlet", event.Tickets[0].PlayTitle)
}

func TestPublishFailureKeepsReservation(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = assert.AnError

	_, err := f.svc.CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{6, 6}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.ticketCount(t))
}

// flakyLocker reports busy for the first n calls
type flakyLocker struct {
	mu    sync.Mutex
	busy  int
	calls int
}

func (l *flakyLocker) Lock(context.Context, []uuid.UUID) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.calls <= l.busy {
		return nil, ErrLockBusy
	}
	return func() {}, nil
}

func newRetryService(f *fixture, locker Locker, attempts int) Service {
	cfg := config.ReservationConfig{MaxAttempts: attempts, RetryBackoff: time.Millisecond}
	return NewService(f.repo, locker, nil, logger.Discard(), cfg)
}

func TestRetriesTransientFailures(t *testing.T) {
	f := newFixture(t)
	locker := &flakyLocker{busy: 2}

	_, err := newRetryService(f, locker, 3).CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{8, 8}))
	require.NoError(t, err)
	assert.Equal(t, 3, locker.calls)
}

func TestGivesUpAfterMaxAttempts(t *testing.T) {
	f := newFixture(t)
	locker := &flakyLocker{busy: 5}

	_, err := newRetryService(f, locker, 3).CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{8, 8}))
	assert.ErrorIs(t, err, ErrLockBusy)
	assert.Equal(t, 3, locker.calls)
}

func TestDoesNotRetryValidationErrors(t *testing.T) {
	f := newFixture(t)
	locker := &flakyLocker{}

	_, err := newRetryService(f, locker, 3).CreateReservation(context.Background(), f.alice, tickets(f.hamlet.ID, [2]int{0, 8}))
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, 1, locker.calls)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, isTransient(ErrLockBusy))
	assert.True(t, isTransient(&pgconn.PgError{Code: "40001"}))
	assert.True(t, isTransient(&pgconn.PgError{Code: "40P01"}))
	assert.False(t, isTransient(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isTransient(ErrSeatTaken))
}
