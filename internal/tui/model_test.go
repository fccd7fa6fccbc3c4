package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenbox/internal/core/breath"
	"zenbox/internal/core/breath/breathtest"
	"zenbox/internal/i18n"
	"zenbox/internal/session"
	"zenbox/internal/settings"
)

type harness struct {
	model      Model
	controller *session.Controller
	scheduler  *breathtest.FakeScheduler
	events     *breath.ChannelObserver
	notifier   *Notifier
}

func newHarness(t *testing.T, countdown int) *harness {
	t.Helper()
	translator := i18n.MustNew("en")
	scheduler := breathtest.NewFakeScheduler()
	events := breath.NewChannelObserver(64)
	notifier := NewNotifier()

	controller, err := session.New(session.Options{
		Settings: settings.Settings{
			PhaseDuration:    2,
			TotalCycles:      1,
			Locale:           "en",
			CountdownSeconds: countdown,
		},
		Labels:    translator.Labels(),
		Scheduler: scheduler,
		Observer:  events,
		Listener:  notifier,
	})
	require.NoError(t, err)

	return &harness{
		model:      New(controller, translator, events.Events(), notifier),
		controller: controller,
		scheduler:  scheduler,
		events:     events,
		notifier:   notifier,
	}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	model, cmd := h.model.Update(msg)
	h.model = model.(Model)
	return cmd
}

func (h *harness) press(key string) tea.Cmd {
	switch key {
	case "space":
		return h.send(tea.KeyMsg{Type: tea.KeySpace})
	case "ctrl+c":
		return h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	default:
		return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	}
}

func TestModel_InitialView(t *testing.T) {
	h := newHarness(t, 3)

	view := h.model.View()
	assert.Contains(t, view, "ZenBox")
	assert.Contains(t, view, "Press start")
	assert.Contains(t, view, "Cycle 0 of 1")
	assert.Contains(t, view, "Ready to start.")
	assert.Contains(t, view, "q quit")
	assert.NotNil(t, h.model.Init())
}

func TestModel_SpaceStartsCountdown(t *testing.T) {
	h := newHarness(t, 3)

	h.press("space")
	assert.Equal(t, session.StateCountdown, h.model.state)
	assert.Contains(t, h.model.View(), "Get ready...")
	assert.Contains(t, h.model.View(), "3")

	h.scheduler.Advance(3)
	h.send(noticeMsg{})
	assert.Contains(t, h.model.View(), "Go!")

	h.scheduler.Advance(1)
	h.send(noticeMsg{})
	assert.Equal(t, session.StateRunning, h.model.state)
	assert.Contains(t, h.model.View(), "Inhale")
}

func TestModel_PauseResetAndNewSession(t *testing.T) {
	h := newHarness(t, 0)

	h.press("space")
	assert.Equal(t, session.StateRunning, h.model.state)

	h.press("space")
	assert.Equal(t, session.StatePaused, h.model.state)
	assert.Contains(t, h.model.View(), "Exercise paused.")

	h.press("r")
	assert.Equal(t, session.StateIdle, h.model.state)
	assert.Equal(t, 2, h.model.snapshot.SecondsRemaining)

	h.press("space")
	h.scheduler.Advance(8)
	h.send(eventMsg{})
	assert.Equal(t, session.StateCompleted, h.model.state)
	assert.Contains(t, h.model.View(), "Session complete! You finished 1 cycles.")
	assert.Contains(t, h.model.View(), "100%")

	h.press("n")
	assert.Equal(t, session.StateIdle, h.model.state)
}

func TestModel_EventsRearmListener(t *testing.T) {
	h := newHarness(t, 0)
	h.press("space")

	cmd := h.send(eventMsg{})
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(eventMsg)
	assert.True(t, ok, "expected the phase change event queued by Toggle")
}

func TestModel_Quit(t *testing.T) {
	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			h := newHarness(t, 3)
			cmd := h.press(key)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
			assert.Empty(t, h.model.View())
		})
	}
}

func TestModel_UnknownKeyIgnored(t *testing.T) {
	h := newHarness(t, 3)
	cmd := h.press("x")
	assert.Nil(t, cmd)
	assert.Equal(t, session.StateIdle, h.model.state)
}

func TestModel_WindowSizeCentersPanel(t *testing.T) {
	h := newHarness(t, 3)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})

	lines := strings.Split(stripStyles(h.model.View()), "\n")
	require.NotEmpty(t, lines)
	assert.True(t, strings.HasPrefix(lines[0], "     "), "panel should be indented: %q", lines[0])
}

func TestRenderBox_DotFollowsPhase(t *testing.T) {
	tests := []struct {
		name    string
		phase   breath.Phase
		remain  int
		wantRow int
		wantCol int
	}{
		{"inhale start", breath.PhaseInhale, 4, boxHeight - 1, 0},
		{"inhale end", breath.PhaseInhale, 0, 0, 0},
		{"hold top right", breath.PhaseHold1, 0, 0, boxWidth - 1},
		{"exhale end", breath.PhaseExhale, 0, boxHeight - 1, boxWidth - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := breath.Snapshot{Phase: tt.phase, PhaseDuration: 4, SecondsRemaining: tt.remain}
			lines := strings.Split(stripStyles(renderBox(snapshot, true)), "\n")
			require.Len(t, lines, boxHeight)
			assert.Equal(t, "●", string([]rune(lines[tt.wantRow])[tt.wantCol]))
		})
	}
}

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, stripStyles(renderProgress(0.5)), strings.Repeat("█", progressWidth/2))
	assert.Contains(t, renderProgress(0.5), " 50%")
	assert.Contains(t, renderProgress(0), "  0%")
}

// stripStyles removes ANSI escape sequences.
func stripStyles(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
