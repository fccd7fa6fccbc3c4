package tui

import (
	"math"
	"strings"

	"zenbox/internal/core/breath"
	"zenbox/internal/ui/animation"
)

const (
	boxWidth  = 17
	boxHeight = 8
)

// renderBox draws the breathing square with the dot at its current position.
func renderBox(snapshot breath.Snapshot, active bool) string {
	dot := animation.Point{X: 0, Y: 1}
	if active && snapshot.PhaseDuration > 0 {
		fraction := float64(snapshot.PhaseDuration-snapshot.SecondsRemaining) / float64(snapshot.PhaseDuration)
		dot = animation.DotPosition(snapshot.Phase, fraction)
	}
	dotCol := int(math.Round(dot.X * float64(boxWidth-1)))
	dotRow := int(math.Round(dot.Y * float64(boxHeight-1)))

	var b strings.Builder
	for row := 0; row < boxHeight; row++ {
		for col := 0; col < boxWidth; col++ {
			if row == dotRow && col == dotCol {
				b.WriteString(dotStyle.Render("●"))
				continue
			}
			b.WriteString(boxStyle.Render(boxRune(row, col)))
		}
		if row < boxHeight-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func boxRune(row, col int) string {
	top, bottom := row == 0, row == boxHeight-1
	left, right := col == 0, col == boxWidth-1
	switch {
	case top && left:
		return "┌"
	case top && right:
		return "┐"
	case bottom && left:
		return "└"
	case bottom && right:
		return "┘"
	case top || bottom:
		return "─"
	case left || right:
		return "│"
	default:
		return " "
	}
}
