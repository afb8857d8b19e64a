package scheduler

import (
	"sync"
	"time"
)

// Clock is the time source for expirations and time slices.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to; used for deterministic runs.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
