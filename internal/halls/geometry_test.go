package halls

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blueHall() TheatreHall {
	return TheatreHall{Name: "Blue", Rows: 20, SeatsInRow: 20}
}

func TestCapacity(t *testing.T) {
	assert.Equal(t, 400, blueHall().Capacity())
	assert.Equal(t, 12, TheatreHall{Rows: 3, SeatsInRow: 4}.Capacity())
}

func TestValid(t *testing.T) {
	h := TheatreHall{Rows: 3, SeatsInRow: 5}

	tests := []struct {
		row, seat int
		want      bool
	}{
		{1, 1, true},
		{3, 5, true},
		{0, 1, false},
		{1, 0, false},
		{4, 1, false},
		{1, 6, false},
		{-1, -1, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.Valid(tt.row, tt.seat), "(%d, %d)", tt.row, tt.seat)
	}
}

func TestCheckSeat(t *testing.T) {
	h := blueHall()

	tests := []struct {
		name      string
		row, seat int
		field     string
		value     int
	}{
		{"row too large", 999, 1, "row", 999},
		{"row zero", 0, 5, "row", 0},
		{"seat too large", 1, 21, "seat", 21},
		{"row reported before seat", 21, 21, "row", 21},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.CheckSeat(tt.row, tt.seat)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrOutOfBounds)

			var be *BoundsError
			require.True(t, errors.As(err, &be))
			assert.Equal(t, tt.field, be.Field)
			assert.Equal(t, tt.value, be.Value)
			assert.Equal(t, 20, be.Limit)
			assert.Contains(t, err.Error(), "(1, 20)")
		})
	}

	assert.NoError(t, h.CheckSeat(20, 20))
}
