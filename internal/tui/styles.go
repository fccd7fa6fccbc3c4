package tui

import (
	"github.com/charmbracelet/lipgloss"

	"zenbox/internal/core/breath"
	"zenbox/internal/session"
)

var (
	primaryColor = lipgloss.Color("#6EAAC8")
	accentColor  = lipgloss.Color("#E8BE42")
	mutedColor   = lipgloss.Color("#9CA3AF")
	inhaleColor  = lipgloss.Color("#10B981")
	holdColor    = lipgloss.Color("#60A5FA")
	exhaleColor  = lipgloss.Color("#A78BFA")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	boxStyle = lipgloss.NewStyle().Foreground(primaryColor)
	dotStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle  = lipgloss.NewStyle().Foreground(mutedColor).Italic(true).MarginTop(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 3)

	progressFull  = lipgloss.NewStyle().Foreground(accentColor)
	progressEmpty = lipgloss.NewStyle().Foreground(mutedColor)
)

func phaseStyle(phase breath.Phase) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch {
	case phase == breath.PhaseInhale:
		return style.Foreground(inhaleColor)
	case phase == breath.PhaseExhale:
		return style.Foreground(exhaleColor)
	case phase.IsHold():
		return style.Foreground(holdColor)
	default:
		return style
	}
}

func stateStyle(state session.State) lipgloss.Style {
	switch state {
	case session.StateRunning:
		return lipgloss.NewStyle().Foreground(inhaleColor)
	case session.StatePaused:
		return lipgloss.NewStyle().Foreground(holdColor)
	case session.StateCompleted:
		return lipgloss.NewStyle().Foreground(exhaleColor)
	case session.StateCountdown:
		return lipgloss.NewStyle().Foreground(accentColor)
	default:
		return mutedStyle
	}
}
