// Package clock is the single source of "now" for period derivation and
// contract expiry, so callers can pin time in tests.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System reads the wall clock.
var System Clock = systemClock{}

// Func adapts a plain function to Clock.
type Func func() time.Time

func (f Func) Now() time.Time { return f() }

// Fixed always reports t.
func Fixed(t time.Time) Clock {
	return Func(func() time.Time { return t })
}

// Today truncates now to midnight in now's location.
func Today(c Clock) time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// DateOnly normalises t to midnight UTC of the same calendar day. Persisted
// dates always go through this so comparisons are pure date comparisons.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InLocation reports c's instants in loc, so Today and DateOnly follow
// loc's calendar instead of the host's.
func InLocation(c Clock, loc *time.Location) Clock {
	return Func(func() time.Time { return c.Now().In(loc) })
}
