package performances

import (
	"errors"
	"fmt"

	"theatre/internal/halls"
)

var ErrIntegrityFault = errors.New("ticket count exceeds hall capacity")

// Available returns the seats left in a hall given its committed ticket count.
// A count above capacity means seat uniqueness was broken and is reported,
// never clamped.
func Available(hall halls.TheatreHall, ticketCount int64) (int, error) {
	capacity := int64(hall.Capacity())
	if ticketCount < 0 || ticketCount > capacity {
		return 0, fmt.Errorf("%w: hall %s has %d seats, %d tickets recorded", ErrIntegrityFault, hall.Name, capacity, ticketCount)
	}
	return int(capacity - ticketCount), nil
}
