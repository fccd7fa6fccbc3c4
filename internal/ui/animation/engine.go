package animation

import (
	"context"
	"sync"
	"time"

	"zenbox/internal/core/breath"
)

// Config contains animation timing values.
type Config struct {
	FrameInterval time.Duration
	MinScale      float64
	MaxScale      float64
}

// Engine renders the breathing box for the current phase on its own goroutine.
type Engine struct {
	mu     sync.Mutex
	config Config
	render func(Frame)
	cancel context.CancelFunc
	done   chan struct{}
	now    func() time.Time
}

// New creates a new animation engine. render is called from the engine goroutine.
func New(config Config, render func(Frame)) *Engine {
	if config.FrameInterval <= 0 {
		config.FrameInterval = DefaultConfig().FrameInterval
	}
	if config.MaxScale <= 0 {
		config.MaxScale = DefaultConfig().MaxScale
	}
	if config.MinScale <= 0 || config.MinScale > config.MaxScale {
		config.MinScale = config.MaxScale * DefaultConfig().MinScale
	}
	return &Engine{
		config: config,
		render: render,
		now:    time.Now,
	}
}

// Config returns the active configuration.
func (engine *Engine) Config() Config {
	return engine.config
}

// StartPhase animates phase from the fraction already elapsed to its end
// over remaining. Any previous animation is cancelled first.
func (engine *Engine) StartPhase(ctx context.Context, phase breath.Phase, elapsed float64, remaining time.Duration) {
	engine.start(ctx, func(runCtx context.Context) {
		engine.runPhase(runCtx, phase, clamp01(elapsed), remaining)
	})
}

// Freeze stops the animation and keeps frame on screen.
func (engine *Engine) Freeze(frame Frame) {
	engine.Stop()
	engine.render(frame)
}

// Rest stops the animation and shows the resting box.
func (engine *Engine) Rest() {
	engine.Freeze(RestFrame(engine.config))
}

// Stop terminates any active animation and waits for its goroutine.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	cancel := engine.cancel
	done := engine.done
	engine.cancel = nil
	engine.done = nil
	engine.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.Stop()

	runCtx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	engine.mu.Lock()
	engine.cancel = cancel
	engine.done = done
	engine.mu.Unlock()

	go func() {
		defer close(done)
		run(runCtx)
	}()
}

func (engine *Engine) runPhase(ctx context.Context, phase breath.Phase, from float64, remaining time.Duration) {
	if remaining <= 0 {
		engine.render(FrameAt(engine.config, phase, 1))
		return
	}

	start := engine.now()
	ticker := time.NewTicker(engine.config.FrameInterval)
	defer ticker.Stop()

	engine.render(FrameAt(engine.config, phase, from))
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			progress := float64(engine.now().Sub(start)) / float64(remaining)
			fraction := from + (1-from)*clamp01(progress)
			engine.render(FrameAt(engine.config, phase, fraction))
			if progress >= 1 {
				return
			}
		}
	}
}
