// Package overlay draws the get-ready countdown and the completion panel
// on top of the breathing window.
package overlay

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Config defines overlay visuals.
type Config struct {
	Opacity uint8
}

// Text holds the localized strings the overlay shows.
type Text struct {
	GetReady   string
	Go         string
	NewSession string
	Close      string
}

// Overlay is a panel stacked over the window content. It is hidden by default.
type Overlay struct {
	root         *fyne.Container
	background   *canvas.Rectangle
	numberLabel  *canvas.Text
	messageLabel *canvas.Text
	buttons      *fyne.Container
	newSession   *widget.Button
	closeButton  *widget.Button
	text         Text
	onNewSession func()
	onClose      func()
}

var (
	accentColor = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
	textColor   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// New creates a hidden overlay.
func New(config Config, text Text) *Overlay {
	background := canvas.NewRectangle(color.NRGBA{R: 0, G: 0, B: 0, A: config.Opacity})

	numberLabel := canvas.NewText("", accentColor)
	numberLabel.Alignment = fyne.TextAlignCenter
	numberLabel.TextStyle = fyne.TextStyle{Bold: true}
	numberLabel.TextSize = 72

	messageLabel := canvas.NewText("", textColor)
	messageLabel.Alignment = fyne.TextAlignCenter
	messageLabel.TextStyle = fyne.TextStyle{Bold: true}
	messageLabel.TextSize = 18

	overlay := &Overlay{
		background:   background,
		numberLabel:  numberLabel,
		messageLabel: messageLabel,
		text:         text,
	}

	overlay.newSession = widget.NewButton(text.NewSession, func() {
		overlay.Hide()
		if overlay.onNewSession != nil {
			overlay.onNewSession()
		}
	})
	overlay.newSession.Importance = widget.HighImportance
	overlay.closeButton = widget.NewButton(text.Close, func() {
		overlay.Hide()
		if overlay.onClose != nil {
			overlay.onClose()
		}
	})
	overlay.buttons = container.NewHBox(layout.NewSpacer(), overlay.newSession, overlay.closeButton, layout.NewSpacer())

	panel := container.NewVBox(
		layout.NewSpacer(),
		numberLabel,
		messageLabel,
		overlay.buttons,
		layout.NewSpacer(),
	)
	overlay.root = container.NewStack(background, panel)
	overlay.root.Hide()
	return overlay
}

// Content returns the object to stack over the window content.
func (overlay *Overlay) Content() fyne.CanvasObject {
	return overlay.root
}

// SetText replaces the localized strings.
func (overlay *Overlay) SetText(text Text) {
	overlay.text = text
	overlay.newSession.SetText(text.NewSession)
	overlay.closeButton.SetText(text.Close)
}

// SetOnNewSession sets the handler for the completion panel's new-session button.
func (overlay *Overlay) SetOnNewSession(handler func()) {
	overlay.onNewSession = handler
}

// SetOnClose sets the handler for the completion panel's close button.
func (overlay *Overlay) SetOnClose(handler func()) {
	overlay.onClose = handler
}

// ShowCountdown shows remaining seconds, or the go text once it reaches zero.
func (overlay *Overlay) ShowCountdown(remaining int) {
	if remaining > 0 {
		overlay.setLabels(strconv.Itoa(remaining), overlay.text.GetReady)
	} else {
		overlay.setLabels(overlay.text.Go, overlay.text.GetReady)
	}
	overlay.buttons.Hide()
	overlay.root.Show()
}

// ShowCompletion shows message with the new-session and close buttons.
func (overlay *Overlay) ShowCompletion(message string) {
	overlay.setLabels("✓", message)
	overlay.buttons.Show()
	overlay.root.Show()
}

// Hide hides the overlay.
func (overlay *Overlay) Hide() {
	overlay.root.Hide()
}

// Visible reports whether the overlay is showing.
func (overlay *Overlay) Visible() bool {
	return overlay.root.Visible()
}

// Number returns the big label text.
func (overlay *Overlay) Number() string {
	return overlay.numberLabel.Text
}

// Message returns the caption text.
func (overlay *Overlay) Message() string {
	return overlay.messageLabel.Text
}

func (overlay *Overlay) setLabels(number, message string) {
	overlay.numberLabel.Text = number
	overlay.numberLabel.Refresh()
	overlay.messageLabel.Text = message
	overlay.messageLabel.Refresh()
}
