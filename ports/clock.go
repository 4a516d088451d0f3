package ports

import (
	"time"

	"levelup/domain/core"
)

// Clock is the sole time source for all recovery and settlement math.
// Injecting it keeps the timer and rollover deterministic under test.
type Clock interface {
	Now() time.Time
	// Today is the current calendar day in the clock's location.
	Today() core.Date
}

// SystemClock reads the host's local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time    { return time.Now() }
func (SystemClock) Today() core.Date  { return core.DateOf(time.Now()) }
