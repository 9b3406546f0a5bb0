package admission

import "time"

// Clock supplies the current time. Window stores take a Clock so tests
// can drive time explicitly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FakeClock is a manually advanced clock for tests.
type FakeClock struct {
	Current time.Time
}

// Now returns the fake current time.
func (c *FakeClock) Now() time.Time {
	return c.Current
}

// Advance moves the fake clock forward.
func (c *FakeClock) Advance(d time.Duration) {
	c.Current = c.Current.Add(d)
}
