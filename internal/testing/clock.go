package testing

import (
	"sync"
	"time"
)

// DefaultTime is where every ManualClock starts unless told otherwise.
var DefaultTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ManualClock provides a controllable clock for testing time-dependent
// behavior such as purchase cooldowns. It satisfies tx.Clock.
type ManualClock struct {
	mu      sync.RWMutex
	current time.Time
	step    time.Duration
}

// NewManualClock creates a new ManualClock set to DefaultTime.
func NewManualClock() *ManualClock {
	return &ManualClock{current: DefaultTime}
}

// NewManualClockAt creates a new ManualClock set to the specified time.
func NewManualClockAt(t time.Time) *ManualClock {
	return &ManualClock{current: t}
}

// Now returns the current time on the clock, then advances it by the
// configured step.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Peek returns the current time without stepping.
func (c *ManualClock) Peek() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Advance moves the clock forward by the specified duration.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

// Set sets the clock to a specific time.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// SetStep makes every Now call advance the clock by d. Zero freezes it.
func (c *ManualClock) SetStep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}
