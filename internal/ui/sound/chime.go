// Package sound plays short synthesized chimes on phase changes.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"

	"zenbox/internal/core/breath"
	"zenbox/internal/logging"
)

// SampleRate is the output rate of every chime.
const SampleRate beep.SampleRate = 44100

const (
	phaseToneLength    = 350 * time.Millisecond
	completeToneLength = 600 * time.Millisecond
	softVolume         = -1.0
)

var phaseFrequencies = map[breath.Phase]float64{
	breath.PhaseInhale: 528,
	breath.PhaseHold1:  440,
	breath.PhaseExhale: 396,
	breath.PhaseHold2:  440,
}

var completeFrequencies = []float64{396, 528, 660}

// Chime plays phase and completion tones. If the audio device cannot be
// opened the chime logs once and stays silent.
type Chime struct {
	mu      sync.Mutex
	enabled bool

	initOnce sync.Once
	ready    bool
	open     func() error
	play     func(beep.Streamer)
	logger   logging.Logger

	phaseBuffers   map[breath.Phase]*beep.Buffer
	completeBuffer *beep.Buffer
}

// NewChime returns a chime on the default audio device.
func NewChime(enabled bool, logger logging.Logger) *Chime {
	return newChime(enabled, logger, func() error {
		return speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	}, func(streamer beep.Streamer) {
		speaker.Play(streamer)
	})
}

func newChime(enabled bool, logger logging.Logger, open func() error, play func(beep.Streamer)) *Chime {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Chime{
		enabled: enabled,
		open:    open,
		play:    play,
		logger:  logger.Named("sound"),
	}
}

// SetEnabled turns the chime on or off.
func (chime *Chime) SetEnabled(enabled bool) {
	chime.mu.Lock()
	defer chime.mu.Unlock()
	chime.enabled = enabled
}

// Enabled reports whether the chime will play.
func (chime *Chime) Enabled() bool {
	chime.mu.Lock()
	defer chime.mu.Unlock()
	return chime.enabled
}

// PlayPhase plays the tone for the start of phase.
func (chime *Chime) PlayPhase(phase breath.Phase) {
	if !chime.prepare() {
		return
	}
	buffer, ok := chime.phaseBuffers[phase]
	if !ok {
		return
	}
	chime.play(soften(buffer.Streamer(0, buffer.Len())))
}

// PlayComplete plays the end-of-session arpeggio.
func (chime *Chime) PlayComplete() {
	if !chime.prepare() {
		return
	}
	chime.play(soften(chime.completeBuffer.Streamer(0, chime.completeBuffer.Len())))
}

func (chime *Chime) prepare() bool {
	if !chime.Enabled() {
		return false
	}
	chime.initOnce.Do(func() {
		if err := chime.open(); err != nil {
			chime.logger.Warn("audio unavailable, chime disabled", logging.Err(err))
			return
		}
		chime.phaseBuffers = make(map[breath.Phase]*beep.Buffer, len(phaseFrequencies))
		for phase, frequency := range phaseFrequencies {
			chime.phaseBuffers[phase] = render(Tone(SampleRate, frequency, phaseToneLength, 0.4))
		}
		notes := make([]beep.Streamer, 0, len(completeFrequencies))
		for _, frequency := range completeFrequencies {
			notes = append(notes, Tone(SampleRate, frequency, completeToneLength, 0.4))
		}
		chime.completeBuffer = render(beep.Seq(notes...))
		chime.ready = true
	})
	return chime.ready
}

func render(streamer beep.Streamer) *beep.Buffer {
	buffer := beep.NewBuffer(beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2})
	buffer.Append(streamer)
	return buffer
}

func soften(streamer beep.Streamer) beep.Streamer {
	return &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   softVolume,
		Silent:   false,
	}
}

// Tone returns a finite sine tone with a short attack and a linear decay.
func Tone(sampleRate beep.SampleRate, frequency float64, duration time.Duration, gain float64) beep.Streamer {
	total := sampleRate.N(duration)
	attack := total / 20
	position := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if position >= total {
			return 0, false
		}
		n := 0
		for i := range samples {
			if position >= total {
				break
			}
			envelope := float64(total-position) / float64(total-attack)
			if position < attack {
				envelope = float64(position) / float64(attack)
			}
			if envelope > 1 {
				envelope = 1
			}
			seconds := float64(position) / float64(sampleRate)
			value := gain * envelope * math.Sin(2*math.Pi*frequency*seconds)
			samples[i][0] = value
			samples[i][1] = value
			position++
			n++
		}
		return n, true
	})
}
