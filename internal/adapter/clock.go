package adapter

import "time"

// Clock supplies block timestamps and delivery delays
//
//go:generate mockgen -source=clock.go -destination=../mocks/clock.go -package=mocks -mock_names=Clock=MockClock
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewClock creates a new real clock implementation
func NewClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// FixedClock is a Clock that only moves when told to, used by devnets and replays
type FixedClock struct {
	now time.Time
}

// NewFixedClock creates a clock pinned at t
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t.UTC()}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Since(t time.Time) time.Duration {
	return c.now.Sub(t)
}

func (c *FixedClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.Advance(d)
	ch <- c.now
	return ch
}

// Advance moves the clock forward by d
func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
