package shared

import "time"

// Clock abstracts wall-clock access so the simulator and deadline
// engine can run against a frozen "today" in tests.
type Clock interface {
	Now() time.Time
	// Today returns the current date truncated to midnight UTC.
	Today() time.Time
}

// SystemClock reads the real wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func (SystemClock) Today() time.Time {
	return Midnight(time.Now().UTC())
}

// FixedClock always reports the same instant. Test use only.
type FixedClock struct {
	Instant time.Time
}

func NewFixedClock(instant time.Time) FixedClock { return FixedClock{Instant: instant} }

func (c FixedClock) Now() time.Time   { return c.Instant }
func (c FixedClock) Today() time.Time { return Midnight(c.Instant) }

// Midnight truncates t to 00:00 UTC on the same date
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole-day difference to - from, both
// truncated to midnight. Negative when to is before from.
func DaysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}

// Date builds a midnight-UTC date; shorthand for test fixtures and
// deadline arithmetic.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
