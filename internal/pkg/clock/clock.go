package clock

import "time"

// Clock abstracts wall-clock reads so business logic that depends on
// "now" (e.g. the active-booking check) can be tested deterministically.
type Clock interface {
	Now() time.Time
}

// System is a Clock backed by time.Now.
type System struct{}

func NewSystem() System {
	return System{}
}

func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock that always returns the same instant. Intended for tests.
type Fixed struct {
	T time.Time
}

func NewFixed(t time.Time) Fixed {
	return Fixed{T: t}
}

func (f Fixed) Now() time.Time {
	return f.T
}
