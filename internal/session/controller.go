// Package session drives a breathing session on top of the phase timer:
// the get-ready countdown, pause and resume, reconfiguration and history.
package session

import (
	"context"
	"sync"
	"time"

	"zenbox/internal/core/breath"
	"zenbox/internal/logging"
	"zenbox/internal/settings"
	"zenbox/internal/storage"
)

// State is the lifecycle state of a session.
type State string

const (
	StateIdle      State = "idle"
	StateCountdown State = "countdown"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

const recordTimeout = 5 * time.Second

// Listener receives controller notifications.
// Countdown reports the seconds left before the session starts; 0 means go.
type Listener interface {
	OnStateChange(state State)
	OnCountdown(remaining int)
}

// ListenerFuncs adapts optional functions to Listener.
type ListenerFuncs struct {
	StateChange func(State)
	Countdown   func(int)
}

func (funcs ListenerFuncs) OnStateChange(state State) {
	if funcs.StateChange != nil {
		funcs.StateChange(state)
	}
}

func (funcs ListenerFuncs) OnCountdown(remaining int) {
	if funcs.Countdown != nil {
		funcs.Countdown(remaining)
	}
}

// Recorder persists sessions once they end.
type Recorder interface {
	Record(ctx context.Context, entry storage.HistoryEntry) (storage.HistoryEntry, error)
}

// Options configures a Controller. Scheduler is required.
type Options struct {
	Settings     settings.Settings
	Labels       breath.Labels
	Scheduler    breath.Scheduler
	TickInterval time.Duration
	Observer     breath.Observer
	Listener     Listener
	Recorder     Recorder
	Logger       logging.Logger
	Now          func() time.Time
}

// Controller owns one timer and the session state around it.
//
// Public operations are serialized by opMu and notify listeners after it is
// released. Timer events arrive through handleTimerEvent, which only takes mu.
// Observers and listeners must not call mutating Controller methods synchronously.
type Controller struct {
	opMu sync.Mutex
	mu   sync.Mutex

	timer        *breath.Timer
	scheduler    breath.Scheduler
	tickInterval time.Duration
	observer     breath.Observer
	listener     Listener
	recorder     Recorder
	logger       logging.Logger
	now          func() time.Time

	settings           settings.Settings
	state              State
	countdownRemaining int
	countdown          breath.Handle
	countdownGen       uint64
	startedAt          time.Time
	cyclesDone         int
	pending            []func()
}

// New creates a Controller in the idle state.
func New(options Options) (*Controller, error) {
	if options.Scheduler == nil {
		return nil, breath.ErrNoScheduler
	}
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Observer == nil {
		options.Observer = breath.Callbacks{}
	}
	if options.Listener == nil {
		options.Listener = ListenerFuncs{}
	}
	if options.Logger == nil {
		options.Logger = logging.Nop()
	}
	if options.Now == nil {
		options.Now = time.Now
	}
	if options.Settings == (settings.Settings{}) {
		options.Settings = settings.DefaultSettings()
	}
	options.Settings = options.Settings.Clamp()

	controller := &Controller{
		scheduler:    options.Scheduler,
		tickInterval: options.TickInterval,
		observer:     options.Observer,
		listener:     options.Listener,
		recorder:     options.Recorder,
		logger:       options.Logger.Named("session"),
		now:          options.Now,
		settings:     options.Settings,
		state:        StateIdle,
	}

	timer, err := breath.New(options.Settings.BreathConfig(), breath.Options{
		TickInterval: options.TickInterval,
		Labels:       options.Labels,
		Now:          options.Now,
	}, breath.Callbacks{
		PhaseChange:       controller.forward,
		Tick:              controller.forward,
		CycleComplete:     controller.handleCycleComplete,
		AllCyclesComplete: controller.handleAllCyclesComplete,
		Reset:             controller.forward,
	}, options.Scheduler)
	if err != nil {
		return nil, err
	}
	controller.timer = timer
	return controller, nil
}

// Toggle is the start/pause button. From idle or completed it starts a new
// session, running pauses, paused resumes and countdown cancels back to idle.
func (controller *Controller) Toggle() {
	controller.opMu.Lock()
	defer controller.flush()

	switch controller.State() {
	case StateIdle:
		controller.beginCountdownLocked()
	case StateCompleted:
		controller.timer.Reset()
		controller.clearSessionLocked()
		controller.beginCountdownLocked()
	case StateCountdown:
		controller.stopCountdownLocked()
		controller.setStateLocked(StateIdle)
	case StateRunning:
		controller.timer.Pause()
		controller.setStateLocked(StatePaused)
	case StatePaused:
		controller.setStateLocked(StateRunning)
		controller.timer.Start()
	}
}

// Reset stops everything and rewinds to the first phase. A session that had
// started and not completed is recorded as abandoned.
func (controller *Controller) Reset() {
	controller.opMu.Lock()
	defer controller.flush()

	controller.abandonLocked()
	controller.timer.Reset()
	controller.setStateLocked(StateIdle)
}

// NewSession dismisses a finished session and returns to idle.
func (controller *Controller) NewSession() {
	controller.Reset()
}

// Apply replaces the settings and returns to idle. Invalid settings are
// rejected and the previous ones are kept.
func (controller *Controller) Apply(next settings.Settings) error {
	if errs := next.Validate(); len(errs) > 0 {
		return errs
	}
	next = next.Clamp()

	controller.opMu.Lock()
	defer controller.flush()

	controller.abandonLocked()
	controller.mu.Lock()
	controller.settings = next
	controller.mu.Unlock()
	controller.timer.UpdateSettings(next.PhaseDuration, next.TotalCycles)
	controller.setStateLocked(StateIdle)
	return nil
}

// SetLabels changes the phase labels for subsequent timer events.
func (controller *Controller) SetLabels(labels breath.Labels) {
	controller.timer.SetLabels(labels)
}

// Close stops any pending countdown and tick, recording an unfinished session.
func (controller *Controller) Close() {
	controller.opMu.Lock()
	defer controller.flush()

	controller.abandonLocked()
	controller.timer.Pause()
}

// State returns the current session state.
func (controller *Controller) State() State {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.state
}

// Settings returns the active settings.
func (controller *Controller) Settings() settings.Settings {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.settings
}

// Countdown returns the seconds left in the get-ready countdown.
func (controller *Controller) Countdown() int {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.countdownRemaining
}

// Snapshot returns the timer state.
func (controller *Controller) Snapshot() breath.Snapshot {
	return controller.timer.CurrentState()
}

// Progress returns the elapsed fraction of the session, from 0 to 1.
func (controller *Controller) Progress() float64 {
	return controller.timer.CurrentState().Progress()
}

func (controller *Controller) beginCountdownLocked() {
	countdown := controller.Settings().CountdownSeconds
	if countdown <= 0 {
		controller.beginLocked()
		return
	}

	controller.mu.Lock()
	controller.countdownGen++
	generation := controller.countdownGen
	controller.countdownRemaining = countdown
	controller.mu.Unlock()

	controller.setStateLocked(StateCountdown)
	controller.notify(func() { controller.listener.OnCountdown(countdown) })
	controller.countdown = controller.scheduler.Every(controller.tickInterval, func() {
		controller.onCountdownTick(generation)
	})
}

func (controller *Controller) onCountdownTick(generation uint64) {
	controller.opMu.Lock()
	defer controller.flush()

	controller.mu.Lock()
	if controller.state != StateCountdown || generation != controller.countdownGen {
		controller.mu.Unlock()
		return
	}
	controller.countdownRemaining--
	remaining := controller.countdownRemaining
	controller.mu.Unlock()

	if remaining >= 0 {
		controller.notify(func() { controller.listener.OnCountdown(remaining) })
		return
	}
	controller.stopCountdownLocked()
	controller.beginLocked()
}

func (controller *Controller) beginLocked() {
	controller.mu.Lock()
	controller.startedAt = controller.now()
	controller.cyclesDone = 0
	controller.mu.Unlock()

	controller.setStateLocked(StateRunning)
	controller.logger.Info("session started",
		logging.Int("phase_duration", controller.Settings().PhaseDuration),
		logging.Int("total_cycles", controller.Settings().TotalCycles),
	)
	controller.timer.Start()
}

func (controller *Controller) stopCountdownLocked() {
	controller.mu.Lock()
	controller.countdownGen++
	controller.countdownRemaining = 0
	controller.mu.Unlock()
	if controller.countdown != nil {
		controller.countdown.Stop()
		controller.countdown = nil
	}
}

func (controller *Controller) abandonLocked() {
	controller.stopCountdownLocked()

	controller.mu.Lock()
	entry, ok := controller.entryLocked(false)
	controller.startedAt = time.Time{}
	controller.cyclesDone = 0
	controller.mu.Unlock()

	if ok {
		controller.logger.Info("session abandoned", logging.Int("completed_cycles", entry.CompletedCycles))
		controller.record(entry)
	}
}

func (controller *Controller) clearSessionLocked() {
	controller.mu.Lock()
	controller.startedAt = time.Time{}
	controller.cyclesDone = 0
	controller.mu.Unlock()
}

func (controller *Controller) entryLocked(completed bool) (storage.HistoryEntry, bool) {
	if controller.startedAt.IsZero() {
		return storage.HistoryEntry{}, false
	}
	return storage.HistoryEntry{
		StartedAt:       controller.startedAt,
		EndedAt:         controller.now(),
		PhaseDuration:   controller.settings.PhaseDuration,
		TotalCycles:     controller.settings.TotalCycles,
		CompletedCycles: controller.cyclesDone,
		Completed:       completed,
	}, true
}

func (controller *Controller) setStateLocked(state State) {
	controller.mu.Lock()
	changed := controller.state != state
	controller.state = state
	controller.mu.Unlock()
	if changed {
		controller.notify(func() { controller.listener.OnStateChange(state) })
	}
}

func (controller *Controller) notify(fn func()) {
	controller.mu.Lock()
	controller.pending = append(controller.pending, fn)
	controller.mu.Unlock()
}

// flush releases opMu and then runs queued listener notifications.
func (controller *Controller) flush() {
	controller.mu.Lock()
	pending := controller.pending
	controller.pending = nil
	controller.mu.Unlock()
	controller.opMu.Unlock()

	for _, fn := range pending {
		fn()
	}
}

func (controller *Controller) record(entry storage.HistoryEntry) {
	if controller.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if _, err := controller.recorder.Record(ctx, entry); err != nil {
		controller.logger.Warn("record session failed", logging.Err(err))
	}
}

func (controller *Controller) forward(event breath.Event) {
	breath.Dispatch(controller.observer, event)
}

func (controller *Controller) handleCycleComplete(event breath.Event) {
	controller.mu.Lock()
	controller.cyclesDone = event.Cycle
	controller.mu.Unlock()
	controller.forward(event)
}

// handleAllCyclesComplete ignores a completion for a session that is no longer
// running, such as one reset while its last tick was being delivered.
func (controller *Controller) handleAllCyclesComplete(event breath.Event) {
	controller.mu.Lock()
	if controller.state != StateRunning || controller.startedAt.IsZero() {
		controller.mu.Unlock()
		controller.logger.Debug("stale completion ignored", logging.Int("cycles", event.Cycle))
		return
	}
	controller.cyclesDone = event.Cycle
	entry, ok := controller.entryLocked(true)
	controller.startedAt = time.Time{}
	changed := controller.state != StateCompleted
	controller.state = StateCompleted
	controller.mu.Unlock()

	controller.logger.Info("session completed", logging.Int("cycles", event.Cycle))
	controller.forward(event)
	if changed {
		controller.listener.OnStateChange(StateCompleted)
	}
	if ok {
		controller.record(entry)
	}
}

type multiListener []Listener

// Listeners fans notifications out to every non-nil listener in order.
func Listeners(listeners ...Listener) Listener {
	fanout := make(multiListener, 0, len(listeners))
	for _, listener := range listeners {
		if listener != nil {
			fanout = append(fanout, listener)
		}
	}
	return fanout
}

func (listeners multiListener) OnStateChange(state State) {
	for _, listener := range listeners {
		listener.OnStateChange(state)
	}
}

func (listeners multiListener) OnCountdown(remaining int) {
	for _, listener := range listeners {
		listener.OnCountdown(remaining)
	}
}

// ToggleMessageID returns the message id for the start/pause control.
func (state State) ToggleMessageID() string {
	switch state {
	case StateRunning:
		return "pause"
	case StatePaused:
		return "resume"
	case StateCountdown:
		return "cancel"
	case StateCompleted:
		return "new_session"
	default:
		return "start"
	}
}

// StatusMessageID returns the message id describing the state.
func (state State) StatusMessageID() string {
	switch state {
	case StateRunning:
		return "status_running"
	case StatePaused:
		return "status_paused"
	case StateCountdown:
		return "status_countdown"
	case StateCompleted:
		return "status_completed"
	default:
		return "status_ready"
	}
}
