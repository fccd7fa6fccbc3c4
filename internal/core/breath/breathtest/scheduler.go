// Package breathtest provides a deterministic scheduler for tests.
package breathtest

import (
	"sync"
	"time"

	"zenbox/internal/core/breath"
)

// FakeScheduler fires callbacks only when Advance is called.
// Every active handle fires once per step regardless of its interval.
type FakeScheduler struct {
	mu        sync.Mutex
	handles   []*Handle
	scheduled int
}

// NewFakeScheduler returns an empty FakeScheduler.
func NewFakeScheduler() *FakeScheduler {
	return &FakeScheduler{}
}

// Every registers fn and returns its handle.
func (scheduler *FakeScheduler) Every(interval time.Duration, fn func()) breath.Handle {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	handle := &Handle{Interval: interval, fn: fn, owner: scheduler}
	scheduler.handles = append(scheduler.handles, handle)
	scheduler.scheduled++
	return handle
}

// Advance fires every active handle, steps times.
func (scheduler *FakeScheduler) Advance(steps int) {
	for i := 0; i < steps; i++ {
		for _, handle := range scheduler.activeHandles() {
			handle.fire()
		}
	}
}

// Active returns the number of handles that have not been stopped.
func (scheduler *FakeScheduler) Active() int {
	return len(scheduler.activeHandles())
}

// Scheduled returns how many times Every has been called.
func (scheduler *FakeScheduler) Scheduled() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	return scheduler.scheduled
}

// Stops returns the total number of Stop calls across all handles.
func (scheduler *FakeScheduler) Stops() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	total := 0
	for _, handle := range scheduler.handles {
		total += handle.stops
	}
	return total
}

func (scheduler *FakeScheduler) activeHandles() []*Handle {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()
	active := make([]*Handle, 0, len(scheduler.handles))
	for _, handle := range scheduler.handles {
		if !handle.stopped {
			active = append(active, handle)
		}
	}
	return active
}

// Handle is a FakeScheduler registration.
type Handle struct {
	Interval time.Duration
	fn       func()
	owner    *FakeScheduler
	stopped  bool
	stops    int
}

// Stop deactivates the handle.
func (handle *Handle) Stop() {
	handle.owner.mu.Lock()
	defer handle.owner.mu.Unlock()
	handle.stopped = true
	handle.stops++
}

// Stops returns how many times Stop was called on the handle.
func (handle *Handle) Stops() int {
	handle.owner.mu.Lock()
	defer handle.owner.mu.Unlock()
	return handle.stops
}

func (handle *Handle) fire() {
	handle.owner.mu.Lock()
	stopped := handle.stopped
	handle.owner.mu.Unlock()
	if !stopped {
		handle.fn()
	}
}
