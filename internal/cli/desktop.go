package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/spf13/cobra"

	"zenbox/internal/config"
	"zenbox/internal/core/breath"
	"zenbox/internal/i18n"
	"zenbox/internal/logging"
	"zenbox/internal/platform"
	"zenbox/internal/session"
	"zenbox/internal/settings"
	"zenbox/internal/storage"
	"zenbox/internal/ui/breathing"
	"zenbox/internal/ui/preferences"
	"zenbox/internal/ui/sound"
	"zenbox/internal/ui/tray"
	"zenbox/resources"
)

const appID = "com.zenbox.app"

// desktopApp holds the pieces that react to a settings change.
type desktopApp struct {
	logger     logging.Logger
	store      *storage.SettingsStore
	translator *i18n.Translator
	controller *session.Controller
	window     *breathing.Window
	prefs      *preferences.Window
	tray       *tray.Manager
	chime      *sound.Chime
}

func (env *environment) runDesktop(cmd *cobra.Command, _ []string) error {
	logger := env.logger.Named("desktop")

	var guard *platform.InstanceGuard
	if env.cfg.Desktop.SingleInstance {
		var err error
		guard, err = platform.AcquireSingleInstance(config.AppName)
		if errors.Is(err, platform.ErrAlreadyRunning) {
			logger.Info("already running, activating the existing window")
			return platform.ActivateRunning(config.AppName)
		}
		if err != nil {
			return err
		}
		defer guard.Release()
	}

	store, err := env.settingsStore()
	if err != nil {
		return err
	}
	current, err := store.Load()
	if err != nil {
		logger.Warn("settings file unreadable, using defaults", logging.Err(err))
	}
	translator, err := i18n.New(current.Locale)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	recorder, closeHistory, err := env.openRecorder()
	if err != nil {
		logger.Warn("history unavailable", logging.Err(err))
	}
	defer closeHistory()

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.AppIcon())
	// trayApp stays nil without a system tray.
	trayApp, hasTray := fyneApp.(desktop.App)
	if !hasTray {
		logger.Info("system tray unsupported on this platform")
	}

	d := &desktopApp{
		logger:     logger,
		store:      store,
		translator: translator,
		chime:      sound.NewChime(current.Sound, env.logger),
	}
	d.window = breathing.New(fyneApp, breathing.Config{
		Width:        float32(env.cfg.Desktop.Width),
		Height:       float32(env.cfg.Desktop.Height),
		TickInterval: time.Second,
		HideOnClose:  hasTray,
	}, translator, d.chime)
	defer d.window.Close()

	d.controller, err = session.New(session.Options{
		Settings:  current,
		Labels:    translator.Labels(),
		Scheduler: breath.NewTickerScheduler(),
		Observer:  d.window,
		Listener: session.Listeners(d.window, session.ListenerFuncs{
			StateChange: d.onStateChange,
		}),
		Recorder: recorder,
		Logger:   env.logger,
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	defer d.controller.Close()
	d.window.SetController(d.controller)

	d.prefs = preferences.New(fyneApp, translator, d.controller.Settings(), d.save)
	d.window.SetOnSettings(d.prefs.Show)

	d.tray = tray.New(trayApp, translator, tray.Callbacks{
		OnShow:        d.window.Show,
		OnToggle:      d.controller.Toggle,
		OnReset:       d.controller.Reset,
		OnPreferences: d.prefs.Show,
		OnQuit:        fyneApp.Quit,
	})
	d.tray.SetIcons(resources.TrayIcons())

	go guard.Serve(func() {
		fyne.Do(d.window.Show)
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := store.Watch(ctx, d.onSettingsFile); err != nil {
		logger.Warn("settings watcher unavailable", logging.Err(err))
	}
	go func() {
		<-ctx.Done()
		if cmd.Context().Err() != nil {
			fyne.Do(fyneApp.Quit)
		}
	}()

	if !env.cfg.Desktop.StartMinimized || !hasTray {
		d.window.Show()
	}
	logger.Info("desktop started",
		logging.Int("phase_duration", current.PhaseDuration),
		logging.Int("total_cycles", current.TotalCycles),
		logging.String("locale", translator.Locale()),
	)
	fyneApp.Run()
	return nil
}

func (d *desktopApp) onStateChange(state session.State) {
	fyne.Do(func() {
		if d.tray != nil {
			d.tray.SetState(state)
		}
	})
}

// save persists settings from the preferences window and applies them.
func (d *desktopApp) save(next settings.Settings) error {
	if err := d.store.Save(next); err != nil {
		return err
	}
	if err := d.apply(next); err != nil {
		return err
	}
	d.prefs.UpdateSettings(next)
	return nil
}

// onSettingsFile handles edits made outside the app, e.g. by `zenbox settings set`.
func (d *desktopApp) onSettingsFile(next settings.Settings, err error) {
	if err != nil {
		d.logger.Warn("settings reload failed", logging.Err(err))
		return
	}
	fyne.Do(func() {
		if next == d.controller.Settings() {
			return
		}
		d.logger.Info("settings changed on disk")
		if err := d.apply(next); err != nil {
			d.logger.Warn("apply settings failed", logging.Err(err))
			return
		}
		d.prefs.UpdateSettings(next)
	})
}

// apply runs on the UI goroutine.
func (d *desktopApp) apply(next settings.Settings) error {
	translator, err := i18n.New(next.Locale)
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}
	relabel := translator.Locale() != d.translator.Locale()
	if relabel {
		d.translator = translator
		d.controller.SetLabels(translator.Labels())
	}
	if err := d.controller.Apply(next); err != nil {
		return err
	}
	d.chime.SetEnabled(next.Sound)
	if relabel {
		d.window.SetTranslator(translator)
		d.prefs.SetTranslator(translator)
		d.tray.SetTranslator(translator)
	}
	return nil
}
