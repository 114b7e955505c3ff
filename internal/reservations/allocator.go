package reservations

import (
	"theatre/internal/halls"

	"github.com/google/uuid"
)

type seatKey struct {
	performance uuid.UUID
	row, seat   int
}

// Allocator validates seat requests against hall geometry and the committed
// seats of each performance, and stages the accepted ones as tickets.
// It must be built from a snapshot read while the performances are locked.
type Allocator struct {
	halls  map[uuid.UUID]halls.TheatreHall
	taken  map[seatKey]struct{}
	staged []Ticket
}

func NewAllocator(hallsByPerformance map[uuid.UUID]halls.TheatreHall) *Allocator {
	return &Allocator{
		halls: hallsByPerformance,
		taken: make(map[seatKey]struct{}),
	}
}

// MarkTaken records a committed ticket
func (a *Allocator) MarkTaken(performanceID uuid.UUID, row, seat int) {
	a.taken[seatKey{performance: performanceID, row: row, seat: seat}] = struct{}{}
}

// Stage checks one request. Geometry is checked before uniqueness. A seat
// staged earlier in the same request counts as taken.
func (a *Allocator) Stage(req SeatRequest) error {
	hall, ok := a.halls[req.PerformanceID]
	if !ok {
		return performanceNotFound(req)
	}

	if err := hall.CheckSeat(req.Row, req.Seat); err != nil {
		return outOfBounds(req, err)
	}

	key := seatKey{performance: req.PerformanceID, row: req.Row, seat: req.Seat}
	if _, taken := a.taken[key]; taken {
		return seatTaken(req, nil)
	}

	a.taken[key] = struct{}{}
	a.staged = append(a.staged, Ticket{
		PerformanceID: req.PerformanceID,
		Row:           req.Row,
		Seat:          req.Seat,
	})
	return nil
}

// Staged returns the accepted tickets in request order
func (a *Allocator) Staged() []Ticket {
	return a.staged
}
