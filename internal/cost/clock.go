// Package cost holds the pure date and money arithmetic of the cost engine.
// Nothing here touches storage; callers supply windows and rates.
package cost

import "time"

const day = 24 * time.Hour

// Clock supplies "now" to the engine so tests can pin the current date.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today returns the clock's current calendar date at UTC midnight.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf truncates t to its calendar date at UTC midnight.
// The calendar date is read in t's own location before conversion.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ElapsedDays returns the number of whole calendar days from start to end.
// Inverted ranges yield 0 and start == end yields 0.
func ElapsedDays(start, end time.Time) int64 {
	s, e := DateOf(start), DateOf(end)
	if !e.After(s) {
		return 0
	}
	return int64(e.Sub(s) / day)
}

// ClampEnd returns end, or today when end lies in the future.
func ClampEnd(end, today time.Time) time.Time {
	if DateOf(end).After(today) {
		return today
	}
	return end
}
