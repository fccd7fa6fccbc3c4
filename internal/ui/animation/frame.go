package animation

import (
	"math"

	"zenbox/internal/core/breath"
)

// Point is a position inside the unit square. (0,0) is the top-left corner.
type Point struct {
	X float64
	Y float64
}

// Frame is one rendered state of the breathing box.
type Frame struct {
	Phase    breath.Phase
	Fraction float64
	Dot      Point
	Scale    float64
}

// corners in travel order: bottom-left, top-left, top-right, bottom-right.
var corners = [breath.PhaseCount + 1]Point{
	{X: 0, Y: 1},
	{X: 0, Y: 0},
	{X: 1, Y: 0},
	{X: 1, Y: 1},
	{X: 0, Y: 1},
}

// DotPosition returns where the dot sits on the square's edge.
// Inhale climbs the left edge, the first hold crosses the top, exhale
// descends the right edge and the second hold returns along the bottom.
func DotPosition(phase breath.Phase, fraction float64) Point {
	index := phase.Index()
	if index < 0 {
		return corners[0]
	}
	fraction = clamp01(fraction)
	from := corners[index]
	to := corners[index+1]
	return Point{
		X: from.X + (to.X-from.X)*fraction,
		Y: from.Y + (to.Y-from.Y)*fraction,
	}
}

// BoxScale returns the box size factor: it grows while inhaling, stays
// large during the first hold, shrinks while exhaling and stays small after.
func BoxScale(config Config, phase breath.Phase, fraction float64) float64 {
	fraction = ease(clamp01(fraction))
	span := config.MaxScale - config.MinScale
	switch phase {
	case breath.PhaseInhale:
		return config.MinScale + span*fraction
	case breath.PhaseHold1:
		return config.MaxScale
	case breath.PhaseExhale:
		return config.MaxScale - span*fraction
	default:
		return config.MinScale
	}
}

// FrameAt builds the frame for phase at fraction.
func FrameAt(config Config, phase breath.Phase, fraction float64) Frame {
	fraction = clamp01(fraction)
	return Frame{
		Phase:    phase,
		Fraction: fraction,
		Dot:      DotPosition(phase, fraction),
		Scale:    BoxScale(config, phase, fraction),
	}
}

// RestFrame is shown while no session is running.
func RestFrame(config Config) Frame {
	return Frame{
		Phase: breath.PhaseInhale,
		Dot:   corners[0],
		Scale: config.MinScale,
	}
}

func ease(fraction float64) float64 {
	return (1 - math.Cos(math.Pi*fraction)) / 2
}

func clamp01(value float64) float64 {
	if value < 0 || math.IsNaN(value) {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
