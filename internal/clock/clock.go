// Package clock provides an abstraction for time operations to improve testability.
// Collaboration sessions and role timings read the time through a Clock so tests
// can pin it.
package clock

import "time"

// Clock is an interface for time operations.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the actual system time.
type RealClock struct{}

// Now returns the current time from the system clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Fixed is a Clock that always reports the same instant until Advance is called.
// It is not safe for concurrent Advance calls.
type Fixed struct {
	T time.Time
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	return f.T
}

// Advance moves the pinned instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}

// ElapsedMs returns the whole milliseconds between start and c.Now().
func ElapsedMs(c Clock, start time.Time) int64 {
	return c.Now().Sub(start).Milliseconds()
}

var (
	_ Clock = RealClock{}
	_ Clock = (*Fixed)(nil)
)
