package clock

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// System is the wall clock. It always reports UTC.
type System struct{}

// Now returns the current wall-clock time in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Func adapts an ordinary function to the Clock interface.
type Func func() time.Time

// Now calls f.
func (f Func) Now() time.Time {
	return f()
}

// Fixed is a manually driven clock for tests. The zero value reports the zero time.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

// NewFixed returns a clock frozen at t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

// Now returns the frozen time.
func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (f *Fixed) Advance(d time.Duration) time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	return f.now
}

var (
	defaultMu    sync.RWMutex
	defaultClock Clock = System{}
)

// Default returns the process-wide clock.
//
// The process-wide clock is a test seam, not a concurrency mechanism: components
// resolve it once when they are constructed and should otherwise receive their
// clock explicitly.
func Default() Clock {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultClock
}

// SetDefault replaces the process-wide clock until ResetDefault is called.
// It panics on a nil clock.
func SetDefault(c Clock) {
	if c == nil {
		panic("clock: nil default clock")
	}
	defaultMu.Lock()
	defaultClock = c
	defaultMu.Unlock()
}

// ResetDefault restores the system clock as the process-wide clock.
func ResetDefault() {
	defaultMu.Lock()
	defaultClock = System{}
	defaultMu.Unlock()
}
