package breath

import (
	"errors"
	"sync"
	"time"

	"zenbox/internal/core/model"
)

// ErrNoScheduler indicates the timer was constructed without a way to schedule ticks.
var ErrNoScheduler = errors.New("no tick scheduler available")

// Options contains runtime options for Timer.
type Options struct {
	TickInterval time.Duration
	Labels       Labels
	Now          func() time.Time
}

// Snapshot is a copy of the timer state at one instant.
type Snapshot struct {
	Phase            Phase
	PhaseLabel       string
	PhaseIndex       int
	SecondsRemaining int
	Cycle            int
	TotalCycles      int
	PhaseDuration    int
	Running          bool
	// Completed stays true until Reset or UpdateSettings; Start does nothing meanwhile.
	Completed bool
}

// Progress returns the elapsed fraction of the whole session, from 0 to 1.
func (snapshot Snapshot) Progress() float64 {
	if snapshot.Completed {
		return 1
	}
	total := snapshot.PhaseDuration * PhaseCount * snapshot.TotalCycles
	if total <= 0 {
		return 0
	}
	elapsed := snapshot.Cycle*PhaseCount*snapshot.PhaseDuration +
		snapshot.PhaseIndex*snapshot.PhaseDuration +
		(snapshot.PhaseDuration - snapshot.SecondsRemaining)
	progress := float64(elapsed) / float64(total)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// Timer is the phase and cycle state machine of a breathing session.
type Timer struct {
	mu         sync.Mutex
	config     model.BreathConfig
	options    Options
	observer   Observer
	scheduler  Scheduler
	phaseIndex int
	remaining  int
	completed  int
	running    bool
	tick       Handle
	generation uint64
	queue      []queuedEvent
	delivering bool
}

// queuedEvent is an event waiting for delivery. Tick events carry the
// generation they were produced under and are dropped once it is stale.
type queuedEvent struct {
	event      Event
	fromTick   bool
	generation uint64
}

// New creates a Timer in the reset state. Non-positive configuration values
// fall back to the defaults. A nil observer is replaced with a no-op observer.
func New(config model.BreathConfig, options Options, observer Observer, scheduler Scheduler) (*Timer, error) {
	if scheduler == nil {
		return nil, ErrNoScheduler
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Labels == (Labels{}) {
		options.Labels = DefaultLabels()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if observer == nil {
		observer = Callbacks{}
	}
	defaults := model.DefaultBreathConfig()
	if config.PhaseDuration <= 0 {
		config.PhaseDuration = defaults.PhaseDuration
	}
	if config.TotalCycles <= 0 {
		config.TotalCycles = defaults.TotalCycles
	}

	timer := &Timer{
		config:    config,
		options:   options,
		observer:  observer,
		scheduler: scheduler,
	}
	timer.restoreLocked()
	return timer, nil
}

// Start begins or resumes the countdown. It is a no-op while running and
// after the last cycle has completed; call Reset to run the session again.
func (timer *Timer) Start() {
	timer.mu.Lock()
	if timer.running || timer.completed >= timer.config.TotalCycles {
		timer.mu.Unlock()
		return
	}
	timer.running = true
	timer.generation++
	generation := timer.generation
	timer.enqueueLocked(timer.phaseEventLocked(EventPhaseChange))
	timer.tick = timer.scheduler.Every(timer.options.TickInterval, func() {
		timer.onTick(generation)
	})
	timer.mu.Unlock()

	timer.deliver()
}

// Pause stops the countdown, keeping the current position.
func (timer *Timer) Pause() {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.stopLocked()
}

// Reset stops the countdown and rewinds to the first phase of the first cycle.
func (timer *Timer) Reset() {
	timer.mu.Lock()
	timer.stopLocked()
	timer.generation++
	timer.restoreLocked()
	timer.enqueueLocked(timer.resetEventLocked())
	timer.mu.Unlock()

	timer.deliver()
}

// UpdateSettings replaces the configuration and resets the timer. The timer
// is left stopped even if it was running. Non-positive values are ignored and
// the previous configuration is kept.
func (timer *Timer) UpdateSettings(phaseDuration, totalCycles int) {
	timer.mu.Lock()
	timer.stopLocked()
	if phaseDuration > 0 && totalCycles > 0 {
		timer.config = model.BreathConfig{
			PhaseDuration: phaseDuration,
			TotalCycles:   totalCycles,
		}
	}
	timer.generation++
	timer.restoreLocked()
	timer.enqueueLocked(timer.resetEventLocked())
	timer.mu.Unlock()

	timer.deliver()
}

// SetLabels replaces the phase labels used by subsequent events.
func (timer *Timer) SetLabels(labels Labels) {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	timer.options.Labels = labels
}

// Config returns the active configuration.
func (timer *Timer) Config() model.BreathConfig {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return timer.config
}

// CurrentState returns a snapshot of the timer.
func (timer *Timer) CurrentState() Snapshot {
	timer.mu.Lock()
	defer timer.mu.Unlock()
	phase := Sequence[timer.phaseIndex]
	return Snapshot{
		Phase:            phase,
		PhaseLabel:       timer.options.Labels.For(phase),
		PhaseIndex:       timer.phaseIndex,
		SecondsRemaining: timer.remaining,
		Cycle:            timer.completed,
		TotalCycles:      timer.config.TotalCycles,
		PhaseDuration:    timer.config.PhaseDuration,
		Running:          timer.running,
		Completed:        timer.completed >= timer.config.TotalCycles,
	}
}

func (timer *Timer) onTick(generation uint64) {
	timer.mu.Lock()
	if !timer.running || generation != timer.generation {
		timer.mu.Unlock()
		return
	}
	events := timer.tickLocked()
	// Completion stops the timer and bumps the generation, so tag with the
	// generation as it stands after the tick.
	for _, event := range events {
		timer.queue = append(timer.queue, queuedEvent{event: event, fromTick: true, generation: timer.generation})
	}
	timer.mu.Unlock()

	timer.deliver()
}

func (timer *Timer) tickLocked() []Event {
	timer.remaining--
	if timer.remaining < 0 {
		timer.remaining = 0
	}
	events := []Event{timer.tickEventLocked()}
	if timer.remaining <= 0 {
		events = timer.advanceLocked(events)
	}
	return events
}

func (timer *Timer) advanceLocked(events []Event) []Event {
	timer.phaseIndex++
	if timer.phaseIndex >= PhaseCount {
		timer.phaseIndex = 0
		timer.completed++
		events = append(events, Event{
			Type:        EventCycleComplete,
			Cycle:       timer.completed,
			TotalCycles: timer.config.TotalCycles,
			At:          timer.options.Now(),
		})

		if timer.completed >= timer.config.TotalCycles {
			events = append(events, Event{
				Type:        EventAllCyclesComplete,
				Cycle:       timer.completed,
				TotalCycles: timer.config.TotalCycles,
				At:          timer.options.Now(),
			})
			timer.stopLocked()
			return events
		}
	}

	timer.remaining = timer.config.PhaseDuration
	return append(events, timer.phaseEventLocked(EventPhaseChange))
}

func (timer *Timer) stopLocked() {
	if !timer.running {
		return
	}
	timer.running = false
	timer.generation++
	if timer.tick != nil {
		timer.tick.Stop()
		timer.tick = nil
	}
}

func (timer *Timer) restoreLocked() {
	timer.phaseIndex = 0
	timer.remaining = timer.config.PhaseDuration
	timer.completed = 0
}

func (timer *Timer) phaseEventLocked(eventType EventType) Event {
	phase := Sequence[timer.phaseIndex]
	return Event{
		Type:             eventType,
		Phase:            phase,
		PhaseLabel:       timer.options.Labels.For(phase),
		PhaseDuration:    timer.config.PhaseDuration,
		SecondsRemaining: timer.remaining,
		Cycle:            timer.completed,
		TotalCycles:      timer.config.TotalCycles,
		At:               timer.options.Now(),
	}
}

func (timer *Timer) tickEventLocked() Event {
	event := timer.phaseEventLocked(EventTick)
	event.PhaseDuration = 0
	return event
}

func (timer *Timer) resetEventLocked() Event {
	event := timer.phaseEventLocked(EventReset)
	event.PhaseLabel = timer.options.Labels.Ready
	return event
}

func (timer *Timer) enqueueLocked(event Event) {
	timer.queue = append(timer.queue, queuedEvent{event: event, generation: timer.generation})
}

// deliver hands queued events to the observer in order, one goroutine at a
// time. A call made while another delivery is in progress, including one from
// inside an observer, leaves its events to that delivery. Tick events are
// dropped if Start, Pause, Reset or UpdateSettings ran after they were queued.
func (timer *Timer) deliver() {
	timer.mu.Lock()
	if timer.delivering {
		timer.mu.Unlock()
		return
	}
	timer.delivering = true

	for len(timer.queue) > 0 {
		next := timer.queue[0]
		timer.queue = timer.queue[1:]
		if next.fromTick && next.generation != timer.generation {
			continue
		}
		timer.mu.Unlock()
		Dispatch(timer.observer, next.event)
		timer.mu.Lock()
	}
	timer.delivering = false
	timer.mu.Unlock()
}
