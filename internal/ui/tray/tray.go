package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"zenbox/internal/i18n"
	"zenbox/internal/session"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow        func()
	OnToggle      func()
	OnReset       func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	translator *i18n.Translator
	callbacks  Callbacks

	statusItem  *fyne.MenuItem
	showItem    *fyne.MenuItem
	toggleItem  *fyne.MenuItem
	resetItem   *fyne.MenuItem
	prefsItem   *fyne.MenuItem
	quitItem    *fyne.MenuItem
	state       session.State
	statusLabel string
	activeIcon  fyne.Resource
	idleIcon    fyne.Resource
}

// New creates a tray manager with the provided callbacks. app may be nil
// when the platform has no system tray.
func New(app desktop.App, translator *i18n.Translator, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:        app,
		translator: translator,
		callbacks:  callbacks,
		state:      session.StateIdle,
	}

	manager.statusItem = fyne.NewMenuItem("", nil)
	manager.statusItem.Disabled = true
	manager.showItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnShow))
	manager.toggleItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnToggle))
	manager.resetItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnReset))
	manager.prefsItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnPreferences))
	manager.quitItem = fyne.NewMenuItem("", invoke(&manager.callbacks.OnQuit))
	manager.quitItem.IsQuit = true

	manager.relabel()
	return manager
}

func invoke(handler *func()) func() {
	return func() {
		if *handler != nil {
			(*handler)()
		}
	}
}

// SetTranslator switches the menu language.
func (manager *Manager) SetTranslator(translator *i18n.Translator) {
	manager.translator = translator
	manager.relabel()
}

// SetIcons sets the tray icons shown while a session is active and otherwise.
func (manager *Manager) SetIcons(active, idle fyne.Resource) {
	manager.activeIcon = active
	manager.idleIcon = idle
	manager.refreshIcon()
}

// SetState updates the start/pause item, status and icon for a session state.
func (manager *Manager) SetState(state session.State) {
	manager.state = state
	manager.relabel()
	manager.refreshIcon()
}

// Icon returns the icon for the current state.
func (manager *Manager) Icon() fyne.Resource {
	if manager.state == session.StateRunning || manager.state == session.StateCountdown {
		return manager.activeIcon
	}
	return manager.idleIcon
}

// SetStatus overrides the status text, e.g. with the current phase.
// An empty status falls back to the state description.
func (manager *Manager) SetStatus(status string) {
	manager.statusLabel = status
	manager.relabel()
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return fyne.NewMenu("ZenBox",
		manager.statusItem,
		fyne.NewMenuItemSeparator(),
		manager.showItem,
		manager.toggleItem,
		manager.resetItem,
		manager.prefsItem,
		fyne.NewMenuItemSeparator(),
		manager.quitItem,
	)
}

func (manager *Manager) relabel() {
	t := manager.translator
	status := manager.statusLabel
	if status == "" {
		status = t.T(manager.state.StatusMessageID())
	}
	manager.statusItem.Label = t.T("status", map[string]any{"Status": status})
	manager.showItem.Label = t.T("show")
	manager.toggleItem.Label = t.T(manager.state.ToggleMessageID())
	manager.resetItem.Label = t.T("reset")
	manager.resetItem.Disabled = manager.state == session.StateIdle
	manager.prefsItem.Label = t.T("settings")
	manager.quitItem.Label = t.T("quit")
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.Menu())
	}
}

func (manager *Manager) refreshIcon() {
	if manager.app != nil && manager.Icon() != nil {
		manager.app.SetSystemTrayIcon(manager.Icon())
	}
}
