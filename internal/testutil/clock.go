package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic wall clock for tests. Each call to Now
// returns the current instant and advances it by a fixed step, so records
// stamped in sequence get distinct, ordered timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	start time.Time
	next  time.Time
	step  time.Duration
}

// NewStepClock creates a clock whose first Now returns start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{start: start, next: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}

// Reset rewinds the clock to its start.
//
// Used for test reuse. After Reset(), the next call to Now() returns start.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = c.start
}
