package halls

import (
	"errors"
	"fmt"
)

var ErrOutOfBounds = errors.New("seat out of bounds")

// BoundsError names the coordinate that fell outside the hall and the limit it broke
type BoundsError struct {
	Field string // "row" or "seat"
	Value int
	Limit int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s number must be in available range: (1, %d), got %d", e.Field, e.Limit, e.Value)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// Valid reports whether (row, seat) lies inside the hall
func (h TheatreHall) Valid(row, seat int) bool {
	return row >= 1 && row <= h.Rows && seat >= 1 && seat <= h.SeatsInRow
}

// CheckSeat validates a coordinate. The row is checked first, so a coordinate
// that is wrong on both axes reports the row.
func (h TheatreHall) CheckSeat(row, seat int) error {
	if row < 1 || row > h.Rows {
		return &BoundsError{Field: "row", Value: row, Limit: h.Rows}
	}
	if seat < 1 || seat > h.SeatsInRow {
		return &BoundsError{Field: "seat", Value: seat, Limit: h.SeatsInRow}
	}
	return nil
}
