package reservations

import (
	"testing"

	"theatre/internal/halls"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator() (*Allocator, uuid.UUID) {
	performanceID := uuid.New()
	a := NewAllocator(map[uuid.UUID]halls.TheatreHall{
		performanceID: {Name: "Blue", Rows: 20, SeatsInRow: 20},
	})
	return a, performanceID
}

func TestStageChecksBoundsBeforeTaken(t *testing.T) {
	a, p := newTestAllocator()
	a.MarkTaken(p, 1, 1)

	tests := []struct {
		name string
		req  SeatRequest
		kind Kind
		msg  string
	}{
		{"row too large", SeatRequest{Row: 999, Seat: 1, PerformanceID: p}, KindOutOfBounds, "row number must be in available range: (1, 20), got 999"},
		{"seat too large", SeatRequest{Row: 1, Seat: 21, PerformanceID: p}, KindOutOfBounds, "seat number must be in available range: (1, 20), got 21"},
		{"both wrong reports row", SeatRequest{Row: 0, Seat: 0, PerformanceID: p}, KindOutOfBounds, "row number must be in available range: (1, 20), got 0"},
		{"taken", SeatRequest{Row: 1, Seat: 1, PerformanceID: p}, KindSeatTaken, ""},
		{"unknown performance", SeatRequest{Row: 1, Seat: 1, PerformanceID: uuid.New()}, KindNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Stage(tt.req)
			require.Error(t, err)

			var seatErr *SeatError
			require.ErrorAs(t, err, &seatErr)
			assert.Equal(t, tt.kind, seatErr.Kind)
			assert.Equal(t, tt.req.Row, seatErr.Row)
			assert.Equal(t, tt.req.Seat, seatErr.Seat)
			assert.Equal(t, tt.req.PerformanceID, seatErr.PerformanceID)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, err.Error())
			}
		})
	}
	assert.Empty(t, a.Staged())
}

func TestStageRejectsSeatRepeatedInRequest(t *testing.T) {
	a, p := newTestAllocator()

	require.NoError(t, a.Stage(SeatRequest{Row: 3, Seat: 4, PerformanceID: p}))
	err := a.Stage(SeatRequest{Row: 3, Seat: 4, PerformanceID: p})

	assert.ErrorIs(t, err, ErrSeatTaken)
	assert.Len(t, a.Staged(), 1)
}

func TestStageKeepsRequestOrder(t *testing.T) {
	a, p := newTestAllocator()

	require.NoError(t, a.Stage(SeatRequest{Row: 5, Seat: 1, PerformanceID: p}))
	require.NoError(t, a.Stage(SeatRequest{Row: 2, Seat: 9, PerformanceID: p}))

	staged := a.Staged()
	require.Len(t, staged, 2)
	assert.Equal(t, 5, staged[0].Row)
	assert.Equal(t, 2, staged[1].Row)
	assert.Equal(t, p, staged[1].PerformanceID)
}

func TestSeatErrorMatchesKindSentinels(t *testing.T) {
	a, p := newTestAllocator()

	err := a.Stage(SeatRequest{Row: 21, Seat: 1, PerformanceID: p})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, err, halls.ErrOutOfBounds)
	assert.NotErrorIs(t, err, ErrSeatTaken)
	assert.Equal(t, KindOutOfBounds, KindOf(err))

	assert.Equal(t, KindUnauthorized, KindOf(ErrUnauthorized))
	assert.Equal(t, Kind(""), KindOf(ErrLockBusy))
}
