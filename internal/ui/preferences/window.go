// Package preferences is the settings dialog of the desktop app.
package preferences

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"zenbox/internal/i18n"
	"zenbox/internal/settings"
)

var durationChoices = []int{3, 4, 5, 6, 7, 8, 10, 12, 15}

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	translator *i18n.Translator
	settings   settings.Settings
	onSave     func(settings.Settings) error

	duration  *widget.Select
	cycles    *widget.Entry
	locale    *widget.Select
	sound     *widget.Check
	countdown *widget.Entry
	save      *widget.Button
	cancel    *widget.Button
	labels    map[string]*widget.Label
	locales   []string
}

// New creates a hidden preferences window. onSave receives validated
// settings; a returned error is shown and the form stays open.
func New(app fyne.App, translator *i18n.Translator, current settings.Settings, onSave func(settings.Settings) error) *Window {
	prefs := &Window{
		window:     app.NewWindow("ZenBox"),
		translator: translator,
		onSave:     onSave,
		cycles:     widget.NewEntry(),
		countdown:  widget.NewEntry(),
		sound:      widget.NewCheck("", nil),
		locales:    i18n.Supported(),
		labels: map[string]*widget.Label{
			"phase_duration": widget.NewLabel(""),
			"total_cycles":   widget.NewLabel(""),
			"language":       widget.NewLabel(""),
			"countdown":      widget.NewLabel(""),
		},
	}
	prefs.duration = widget.NewSelect(nil, nil)
	prefs.locale = widget.NewSelect(nil, nil)
	prefs.save = widget.NewButton("", prefs.handleSave)
	prefs.save.Importance = widget.HighImportance
	prefs.cancel = widget.NewButton("", func() {
		prefs.revert()
		prefs.window.Hide()
	})

	form := container.New(layout.NewFormLayout(),
		prefs.labels["phase_duration"], prefs.duration,
		prefs.labels["total_cycles"], prefs.cycles,
		prefs.labels["language"], prefs.locale,
		prefs.labels["countdown"], prefs.countdown,
	)
	buttons := container.NewHBox(layout.NewSpacer(), prefs.cancel, prefs.save)
	prefs.window.SetContent(container.NewBorder(nil, buttons, nil, nil, container.NewVBox(form, prefs.sound)))
	prefs.window.Resize(fyne.NewSize(380, 260))
	prefs.window.SetCloseIntercept(func() {
		prefs.revert()
		prefs.window.Hide()
	})

	prefs.relabel()
	prefs.UpdateSettings(current)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces the values shown in the form.
func (prefs *Window) UpdateSettings(current settings.Settings) {
	prefs.settings = current
	prefs.revert()
}

// SetTranslator relabels the form.
func (prefs *Window) SetTranslator(translator *i18n.Translator) {
	prefs.translator = translator
	prefs.relabel()
	prefs.revert()
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() settings.Settings {
	return prefs.settings
}

func (prefs *Window) relabel() {
	t := prefs.translator
	prefs.window.SetTitle("ZenBox - " + t.T("settings"))
	for id, label := range prefs.labels {
		label.SetText(t.T(id))
	}
	prefs.sound.Text = t.T("sound")
	prefs.sound.Refresh()
	prefs.save.SetText(t.T("save"))
	prefs.cancel.SetText(t.T("cancel"))

	names := make([]string, 0, len(prefs.locales))
	for _, locale := range prefs.locales {
		names = append(names, t.T("language_"+locale))
	}
	prefs.locale.SetOptions(names)
}

func (prefs *Window) revert() {
	current := prefs.settings

	choices := slices.Clone(durationChoices)
	if !slices.Contains(choices, current.PhaseDuration) {
		choices = append(choices, current.PhaseDuration)
		slices.Sort(choices)
	}
	options := make([]string, 0, len(choices))
	for _, seconds := range choices {
		options = append(options, prefs.translator.T("seconds_short", map[string]any{"Seconds": seconds}))
	}
	prefs.duration.SetOptions(options)
	prefs.duration.SetSelectedIndex(slices.Index(choices, current.PhaseDuration))

	prefs.cycles.SetText(strconv.Itoa(current.TotalCycles))
	prefs.countdown.SetText(strconv.Itoa(current.CountdownSeconds))
	prefs.sound.SetChecked(current.Sound)

	index := slices.Index(prefs.locales, current.Locale)
	if index < 0 {
		index = slices.Index(prefs.locales, i18n.DefaultLocale)
	}
	prefs.locale.SetSelectedIndex(index)
}

// read collects the form. Unparsable numbers become -1 so Validate rejects them.
func (prefs *Window) read() settings.Settings {
	next := prefs.settings
	next.PhaseDuration = prefs.selectedDuration()
	next.TotalCycles = parseInt(prefs.cycles.Text)
	next.CountdownSeconds = parseInt(prefs.countdown.Text)
	next.Sound = prefs.sound.Checked
	if index := prefs.locale.SelectedIndex(); index >= 0 && index < len(prefs.locales) {
		next.Locale = prefs.locales[index]
	}
	return next
}

func (prefs *Window) selectedDuration() int {
	index := prefs.duration.SelectedIndex()
	if index < 0 {
		return prefs.settings.PhaseDuration
	}
	choices := slices.Clone(durationChoices)
	if !slices.Contains(choices, prefs.settings.PhaseDuration) {
		choices = append(choices, prefs.settings.PhaseDuration)
		slices.Sort(choices)
	}
	return choices[index]
}

func (prefs *Window) handleSave() {
	next := prefs.read()
	if errs := next.Validate(); len(errs) > 0 {
		prefs.fail(errs)
		return
	}
	if prefs.onSave != nil {
		if err := prefs.onSave(next); err != nil {
			prefs.fail(err)
			return
		}
	}
	prefs.settings = next
	prefs.window.Hide()
}

func (prefs *Window) fail(err error) {
	prefs.revert()
	dialog.ShowError(fmt.Errorf("%s: %w", prefs.translator.T("invalid_settings"), err), prefs.window)
}

func parseInt(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return parsed
}
