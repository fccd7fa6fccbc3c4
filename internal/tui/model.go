// Package tui is the terminal front end: the same session as the desktop
// window, rendered with bubbletea and lipgloss.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"zenbox/internal/core/breath"
	"zenbox/internal/i18n"
	"zenbox/internal/session"
)

const progressWidth = 30

// Controller is the part of session.Controller the terminal UI drives.
type Controller interface {
	Toggle()
	Reset()
	NewSession()
	State() session.State
	Snapshot() breath.Snapshot
	Countdown() int
}

type eventMsg breath.Event

type noticeMsg struct{}

// Notifier is a session.Listener that wakes the model. Notifications are
// coalesced; the model always reads the current state from the controller.
type Notifier struct {
	ch chan noticeMsg
}

// NewNotifier returns a Notifier with a small buffer.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan noticeMsg, 16)}
}

func (notifier *Notifier) OnStateChange(session.State) { notifier.wake() }
func (notifier *Notifier) OnCountdown(int)             { notifier.wake() }

func (notifier *Notifier) wake() {
	select {
	case notifier.ch <- noticeMsg{}:
	default:
	}
}

// Model is the bubbletea model of a breathing session.
type Model struct {
	controller Controller
	translator *i18n.Translator
	events     <-chan breath.Event
	notices    <-chan noticeMsg
	keys       keyMap
	help       help.Model

	snapshot  breath.Snapshot
	state     session.State
	countdown int
	width     int
	quitting  bool
}

// New creates a Model. events usually comes from a breath.ChannelObserver
// registered as the controller's observer, and notifier as its listener.
func New(controller Controller, translator *i18n.Translator, events <-chan breath.Event, notifier *Notifier) Model {
	model := Model{
		controller: controller,
		translator: translator,
		events:     events,
		keys:       newKeyMap(translator),
		help:       help.New(),
	}
	if notifier != nil {
		model.notices = notifier.ch
	}
	model.refresh()
	return model
}

// Init starts listening for timer and session notifications.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), waitForNotice(m.notices))
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case noticeMsg:
		m.refresh()
		return m, waitForNotice(m.notices)
	}
	return m, nil
}

func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.controller.Toggle()
	case key.Matches(msg, m.keys.Reset):
		m.controller.Reset()
	case key.Matches(msg, m.keys.NewSession):
		m.controller.NewSession()
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m *Model) refresh() {
	m.snapshot = m.controller.Snapshot()
	m.state = m.controller.State()
	m.countdown = m.controller.Countdown()
}

// View renders the session.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.translator
	active := m.state == session.StateRunning || m.state == session.StatePaused

	var b strings.Builder
	b.WriteString(titleStyle.Render("ZenBox"))
	b.WriteByte('\n')
	b.WriteString(renderBox(m.snapshot, active))
	b.WriteString("\n\n")

	switch m.state {
	case session.StateCountdown:
		number := strconv.Itoa(m.countdown)
		if m.countdown <= 0 {
			number = t.T("go")
		}
		b.WriteString(mutedStyle.Render(t.T("get_ready")))
		b.WriteByte('\n')
		b.WriteString(timerStyle.Render(number))
	case session.StateCompleted:
		b.WriteString(phaseStyle("").Render(t.Completed(m.snapshot.TotalCycles)))
		b.WriteByte('\n')
		b.WriteString(mutedStyle.Render(t.T("new_session") + ": n"))
	case session.StateIdle:
		b.WriteString(mutedStyle.Render(t.Labels().Ready))
		b.WriteByte('\n')
		b.WriteString(timerStyle.Render(strconv.Itoa(m.snapshot.SecondsRemaining)))
	default:
		b.WriteString(phaseStyle(m.snapshot.Phase).Render(m.snapshot.PhaseLabel))
		b.WriteByte('\n')
		b.WriteString(timerStyle.Render(strconv.Itoa(m.snapshot.SecondsRemaining)))
	}
	b.WriteString("\n\n")
	b.WriteString(t.CycleCounter(m.snapshot.Cycle, m.snapshot.TotalCycles))
	b.WriteByte('\n')
	b.WriteString(renderProgress(m.snapshot.Progress()))
	b.WriteByte('\n')
	b.WriteString(stateStyle(m.state).Render(t.T(m.state.StatusMessageID())))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	panel := panelStyle.Render(b.String())
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, panel)
	}
	return panel
}

func renderProgress(progress float64) string {
	filled := int(progress * progressWidth)
	if filled > progressWidth {
		filled = progressWidth
	}
	return progressFull.Render(strings.Repeat("█", filled)) +
		progressEmpty.Render(strings.Repeat("░", progressWidth-filled)) +
		fmt.Sprintf(" %3.0f%%", progress*100)
}

func waitForEvent(events <-chan breath.Event) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(event)
	}
}

func waitForNotice(notices <-chan noticeMsg) tea.Cmd {
	if notices == nil {
		return nil
	}
	return func() tea.Msg {
		notice, ok := <-notices
		if !ok {
			return nil
		}
		return notice
	}
}
