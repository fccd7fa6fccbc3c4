package breath

// Phase identifies one position in the breathing sequence.
type Phase string

const (
	PhaseInhale Phase = "inhale"
	PhaseHold1  Phase = "hold1"
	PhaseExhale Phase = "exhale"
	PhaseHold2  Phase = "hold2"
)

// Sequence is the fixed order of phases in one cycle.
var Sequence = [...]Phase{PhaseInhale, PhaseHold1, PhaseExhale, PhaseHold2}

// PhaseCount is the number of phases in a cycle.
const PhaseCount = len(Sequence)

// Index returns the position of the phase in Sequence, or -1.
func (phase Phase) Index() int {
	for i, candidate := range Sequence {
		if candidate == phase {
			return i
		}
	}
	return -1
}

// IsHold reports whether the phase is one of the two holds.
func (phase Phase) IsHold() bool {
	return phase == PhaseHold1 || phase == PhaseHold2
}

// Labels holds the display text for each phase.
type Labels struct {
	Inhale string
	Hold   string
	Exhale string
	// Ready is shown after a reset, before the session starts.
	Ready string
}

// DefaultLabels returns English labels.
func DefaultLabels() Labels {
	return Labels{
		Inhale: "Inhale",
		Hold:   "Hold",
		Exhale: "Exhale",
		Ready:  "Press start",
	}
}

// For returns the label for a phase. Both holds share Hold.
func (labels Labels) For(phase Phase) string {
	switch phase {
	case PhaseInhale:
		return labels.Inhale
	case PhaseHold1, PhaseHold2:
		return labels.Hold
	case PhaseExhale:
		return labels.Exhale
	default:
		return ""
	}
}
