package monitor

import "time"

// Clock abstracts wall-clock reads so tests can simulate elapsed grace
// periods without waiting.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
