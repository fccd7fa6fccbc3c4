// Package breathing is the desktop window that guides a session.
package breathing

import (
	"context"
	"image/color"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"zenbox/internal/core/breath"
	"zenbox/internal/i18n"
	"zenbox/internal/session"
	"zenbox/internal/ui/animation"
	"zenbox/internal/ui/overlay"
)

// Controller is the part of session.Controller the window drives.
type Controller interface {
	Toggle()
	Reset()
	NewSession()
	State() session.State
	Snapshot() breath.Snapshot
}

// Player plays phase and completion chimes.
type Player interface {
	PlayPhase(phase breath.Phase)
	PlayComplete()
}

// Config defines window geometry and timing.
type Config struct {
	Width        float32
	Height       float32
	TickInterval time.Duration
	HideOnClose  bool
}

// Window shows the phase, countdown, cycle counter, progress and the
// animated box. It implements breath.Observer and session.Listener; events
// may arrive on any goroutine and are applied on the UI goroutine.
type Window struct {
	app        fyne.App
	window     fyne.Window
	config     Config
	controller Controller
	translator *i18n.Translator
	chime      Player
	engine     *animation.Engine
	overlay    *overlay.Overlay

	phaseLabel     *canvas.Text
	timerLabel     *canvas.Text
	cycleLabel     *widget.Label
	progress       *widget.ProgressBar
	box            *boxView
	toggleButton   *widget.Button
	resetButton    *widget.Button
	settingsButton *widget.Button

	onSettings    func()
	do            func(func())
	phaseDuration int
	state         session.State
}

// New creates the breathing window. Call SetController before showing it.
func New(app fyne.App, config Config, translator *i18n.Translator, chime Player) *Window {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}
	if config.Width <= 0 || config.Height <= 0 {
		config.Width, config.Height = 420, 560
	}

	window := &Window{
		app:        app,
		window:     app.NewWindow("ZenBox"),
		config:     config,
		translator: translator,
		chime:      chime,
		do:         fyne.Do,
		state:      session.StateIdle,
	}
	if app.Icon() != nil {
		window.window.SetIcon(app.Icon())
	}

	window.phaseLabel = canvas.NewText("", theme.Color(theme.ColorNameForeground))
	window.phaseLabel.Alignment = fyne.TextAlignCenter
	window.phaseLabel.TextStyle = fyne.TextStyle{Bold: true}
	window.phaseLabel.TextSize = 28

	window.timerLabel = canvas.NewText("", color.NRGBA{R: 232, G: 190, B: 66, A: 255})
	window.timerLabel.Alignment = fyne.TextAlignCenter
	window.timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	window.timerLabel.TextSize = 48

	window.cycleLabel = widget.NewLabel("")
	window.cycleLabel.Alignment = fyne.TextAlignCenter
	window.progress = widget.NewProgressBar()
	window.progress.TextFormatter = func() string { return "" }

	engineConfig := animation.DefaultConfig()
	window.box = newBoxView(animation.RestFrame(engineConfig))
	window.engine = animation.New(engineConfig, func(frame animation.Frame) {
		window.do(func() { window.box.SetFrame(frame) })
	})

	window.toggleButton = widget.NewButton("", func() {
		if window.controller != nil {
			window.controller.Toggle()
		}
	})
	window.toggleButton.Importance = widget.HighImportance
	window.resetButton = widget.NewButton("", func() {
		if window.controller != nil {
			window.controller.Reset()
		}
	})
	window.settingsButton = widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if window.onSettings != nil {
			window.onSettings()
		}
	})

	window.overlay = overlay.New(overlay.Config{Opacity: 200}, window.overlayText())
	window.overlay.SetOnNewSession(func() {
		if window.controller != nil {
			window.controller.NewSession()
		}
	})

	header := container.NewVBox(window.phaseLabel, window.timerLabel)
	footer := container.NewVBox(
		window.cycleLabel,
		window.progress,
		container.NewHBox(layout.NewSpacer(), window.toggleButton, window.resetButton, window.settingsButton, layout.NewSpacer()),
	)
	content := container.NewBorder(header, footer, nil, nil, window.box)
	window.window.SetContent(container.NewStack(container.NewPadded(content), window.overlay.Content()))
	window.window.Resize(fyne.NewSize(config.Width, config.Height))
	window.window.SetCloseIntercept(func() {
		if window.config.HideOnClose {
			window.window.Hide()
			return
		}
		window.app.Quit()
	})

	window.relabel()
	return window
}

// SetController attaches the session controller and shows its current state.
func (window *Window) SetController(controller Controller) {
	window.controller = controller
	window.state = controller.State()
	window.showSnapshot(controller.Snapshot())
	window.relabel()
}

// SetOnSettings sets the handler for the settings button.
func (window *Window) SetOnSettings(handler func()) {
	window.onSettings = handler
}

// SetTranslator switches the window language.
func (window *Window) SetTranslator(translator *i18n.Translator) {
	window.do(func() {
		window.translator = translator
		window.overlay.SetText(window.overlayText())
		window.relabel()
		if window.controller != nil {
			window.showSnapshot(window.controller.Snapshot())
		}
	})
}

// Show displays the window and brings it to the front.
func (window *Window) Show() {
	window.window.Show()
	window.window.RequestFocus()
}

// Close stops the animation.
func (window *Window) Close() {
	if window.engine != nil {
		window.engine.Stop()
	}
}

// Fyne returns the underlying fyne window, e.g. for dialogs.
func (window *Window) Fyne() fyne.Window {
	return window.window
}

func (window *Window) OnPhaseChange(event breath.Event) {
	window.do(func() {
		window.phaseDuration = event.PhaseDuration
		window.showEvent(event)
		window.animate(event)
		if window.chime != nil {
			window.chime.PlayPhase(event.Phase)
		}
	})
}

func (window *Window) OnTick(event breath.Event) {
	window.do(func() {
		window.showEvent(event)
	})
}

func (window *Window) OnCycleComplete(event breath.Event) {
	window.do(func() {
		window.cycleLabel.SetText(window.translator.CycleCounter(event.Cycle, event.TotalCycles))
	})
}

func (window *Window) OnAllCyclesComplete(event breath.Event) {
	window.do(func() {
		window.progress.SetValue(1)
		window.overlay.ShowCompletion(window.translator.Completed(event.TotalCycles))
		if window.engine != nil {
			window.engine.Rest()
		}
		if window.chime != nil {
			window.chime.PlayComplete()
		}
	})
}

func (window *Window) OnReset(event breath.Event) {
	window.do(func() {
		window.phaseDuration = event.PhaseDuration
		window.showEvent(event)
		window.overlay.Hide()
		if window.engine != nil {
			window.engine.Rest()
		}
	})
}

func (window *Window) OnStateChange(state session.State) {
	window.do(func() {
		window.state = state
		window.relabel()
		switch state {
		case session.StatePaused:
			if window.engine != nil {
				window.engine.Stop()
			}
		case session.StateRunning, session.StateIdle:
			window.overlay.Hide()
		}
	})
}

func (window *Window) OnCountdown(remaining int) {
	window.do(func() {
		window.overlay.ShowCountdown(remaining)
	})
}

func (window *Window) showEvent(event breath.Event) {
	duration := event.PhaseDuration
	if duration == 0 {
		duration = window.phaseDuration
	}
	window.showSnapshot(breath.Snapshot{
		Phase:            event.Phase,
		PhaseLabel:       event.PhaseLabel,
		PhaseIndex:       event.Phase.Index(),
		SecondsRemaining: event.SecondsRemaining,
		Cycle:            event.Cycle,
		TotalCycles:      event.TotalCycles,
		PhaseDuration:    duration,
		Running:          event.Type != breath.EventReset,
	})
}

func (window *Window) showSnapshot(snapshot breath.Snapshot) {
	window.phaseDuration = snapshot.PhaseDuration
	label := snapshot.PhaseLabel
	if !snapshot.Running && snapshot.Cycle == 0 && snapshot.PhaseIndex == 0 && snapshot.SecondsRemaining == snapshot.PhaseDuration {
		label = window.translator.Labels().Ready
	}
	window.phaseLabel.Text = label
	window.phaseLabel.Refresh()
	window.timerLabel.Text = strconv.Itoa(snapshot.SecondsRemaining)
	window.timerLabel.Refresh()
	window.cycleLabel.SetText(window.translator.CycleCounter(snapshot.Cycle, snapshot.TotalCycles))
	window.progress.SetValue(snapshot.Progress())
}

func (window *Window) animate(event breath.Event) {
	if window.engine == nil || event.PhaseDuration <= 0 {
		return
	}
	elapsed := float64(event.PhaseDuration-event.SecondsRemaining) / float64(event.PhaseDuration)
	remaining := time.Duration(event.SecondsRemaining) * window.config.TickInterval
	window.engine.StartPhase(context.Background(), event.Phase, elapsed, remaining)
}

func (window *Window) relabel() {
	t := window.translator
	window.toggleButton.SetText(t.T(window.state.ToggleMessageID()))
	window.resetButton.SetText(t.T("reset"))
	if window.state == session.StateIdle {
		window.resetButton.Disable()
	} else {
		window.resetButton.Enable()
	}
	window.settingsButton.SetText(t.T("settings"))
}

func (window *Window) overlayText() overlay.Text {
	t := window.translator
	return overlay.Text{
		GetReady:   t.T("get_ready"),
		Go:         t.T("go"),
		NewSession: t.T("new_session"),
		Close:      t.T("close"),
	}
}
