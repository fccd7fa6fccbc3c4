package breath

import (
	"sync"
	"time"
)

// Handle is a scheduled recurring callback.
type Handle interface {
	// Stop cancels the callback. After Stop returns the callback is not
	// invoked again, except for an invocation already in progress.
	Stop()
}

// Scheduler schedules recurring callbacks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Handle
}

// TickerScheduler runs callbacks on a time.Ticker goroutine.
type TickerScheduler struct{}

// NewTickerScheduler returns a wall-clock scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Every starts a goroutine that calls fn once per interval.
func (TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Second
	}
	handle := &tickerHandle{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go handle.run(time.NewTicker(interval), fn)
	return handle
}

type tickerHandle struct {
	once   sync.Once
	stopCh chan struct{}
	done   chan struct{}
}

func (handle *tickerHandle) run(ticker *time.Ticker, fn func()) {
	defer close(handle.done)
	defer ticker.Stop()

	for {
		select {
		case <-handle.stopCh:
			return
		case <-ticker.C:
			select {
			case <-handle.stopCh:
				return
			default:
			}
			fn()
		}
	}
}

// Stop signals the ticker goroutine to exit. It does not wait for a callback
// in flight, since the callback may itself be the caller.
func (handle *tickerHandle) Stop() {
	handle.once.Do(func() {
		close(handle.stopCh)
	})
}
