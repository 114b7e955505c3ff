package reservations

import (
	"errors"
	"fmt"

	"theatre/internal/halls"

	"github.com/google/uuid"
)

// Kind classifies a rejected reservation request
type Kind string

const (
	KindOutOfBounds      Kind = "OutOfBounds"
	KindSeatTaken        Kind = "SeatTaken"
	KindEmptyReservation Kind = "EmptyReservation"
	KindUnauthorized     Kind = "Unauthorized"
	KindForbidden        Kind = "Forbidden"
	KindNotFound         Kind = "NotFound"
)

var (
	ErrOutOfBounds      = halls.ErrOutOfBounds
	ErrSeatTaken        = errors.New("seat is already taken")
	ErrEmptyReservation = errors.New("reservation must contain at least one ticket")
	ErrUnauthorized     = errors.New("authentication required")
	ErrForbidden        = errors.New("insufficient permissions")
	ErrNotFound         = errors.New("not found")

	// ErrLockBusy is returned when a performance lock could not be taken in time
	ErrLockBusy = errors.New("performance is locked by another reservation")
)

var kindSentinels = map[Kind]error{
	KindOutOfBounds:      ErrOutOfBounds,
	KindSeatTaken:        ErrSeatTaken,
	KindEmptyReservation: ErrEmptyReservation,
	KindUnauthorized:     ErrUnauthorized,
	KindForbidden:        ErrForbidden,
	KindNotFound:         ErrNotFound,
}

// SeatError is the failure of one seat request, with the coordinate that caused it.
// errors.Is matches it against the sentinel of its kind.
type SeatError struct {
	Kind          Kind
	Row           int
	Seat          int
	PerformanceID uuid.UUID
	Err           error
}

func (e *SeatError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *SeatError) Unwrap() error {
	return e.Err
}

func (e *SeatError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func outOfBounds(req SeatRequest, err error) *SeatError {
	return &SeatError{Kind: KindOutOfBounds, Row: req.Row, Seat: req.Seat, PerformanceID: req.PerformanceID, Err: err}
}

func seatTaken(req SeatRequest, cause error) *SeatError {
	err := fmt.Errorf("seat %d in row %d is already taken for performance %s", req.Seat, req.Row, req.PerformanceID)
	if cause != nil {
		err = fmt.Errorf("%w: %w", err, cause)
	}
	return &SeatError{Kind: KindSeatTaken, Row: req.Row, Seat: req.Seat, PerformanceID: req.PerformanceID, Err: err}
}

func performanceNotFound(req SeatRequest) *SeatError {
	return &SeatError{
		Kind:          KindNotFound,
		Row:           req.Row,
		Seat:          req.Seat,
		PerformanceID: req.PerformanceID,
		Err:           fmt.Errorf("performance %s not found", req.PerformanceID),
	}
}

// KindOf reports the kind of a reservation error, or "" for unexpected failures
func KindOf(err error) Kind {
	var seatErr *SeatError
	if errors.As(err, &seatErr) {
		return seatErr.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}
