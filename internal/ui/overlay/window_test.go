package overlay

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
)

func newTestOverlay() *Overlay {
	return New(Config{Opacity: 200}, Text{GetReady: "Get ready...", Go: "Go!", NewSession: "New session", Close: "Close"})
}

func TestOverlay_Countdown(t *testing.T) {
	test.NewTempApp(t)
	overlay := newTestOverlay()
	assert.False(t, overlay.Visible())

	overlay.ShowCountdown(3)
	assert.True(t, overlay.Visible())
	assert.Equal(t, "3", overlay.Number())
	assert.Equal(t, "Get ready...", overlay.Message())
	assert.False(t, overlay.buttons.Visible())

	overlay.ShowCountdown(0)
	assert.Equal(t, "Go!", overlay.Number())

	overlay.Hide()
	assert.False(t, overlay.Visible())
}

func TestOverlay_CompletionButtons(t *testing.T) {
	test.NewTempApp(t)
	overlay := newTestOverlay()
	newSessions, closes := 0, 0
	overlay.SetOnNewSession(func() { newSessions++ })
	overlay.SetOnClose(func() { closes++ })

	overlay.ShowCompletion("Session complete! You finished 13 cycles.")
	assert.True(t, overlay.buttons.Visible())
	assert.Equal(t, "Session complete! You finished 13 cycles.", overlay.Message())

	test.Tap(overlay.newSession)
	assert.Equal(t, 1, newSessions)
	assert.False(t, overlay.Visible())

	overlay.ShowCompletion("done")
	test.Tap(overlay.closeButton)
	assert.Equal(t, 1, closes)
	assert.False(t, overlay.Visible())
}

func TestOverlay_SetText(t *testing.T) {
	test.NewTempApp(t)
	overlay := newTestOverlay()
	overlay.SetText(Text{GetReady: "Prepare-se...", Go: "VAI!", NewSession: "Nova sessão", Close: "Fechar"})

	overlay.ShowCountdown(0)
	assert.Equal(t, "VAI!", overlay.Number())
	assert.Equal(t, "Nova sessão", overlay.newSession.Text)
}
