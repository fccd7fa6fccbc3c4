package sound

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"zenbox/internal/core/breath"
	"zenbox/internal/logging"
)

func drain(streamer beep.Streamer) [][2]float64 {
	var all [][2]float64
	buffer := make([][2]float64, 512)
	for {
		n, ok := streamer.Stream(buffer)
		all = append(all, buffer[:n]...)
		if !ok {
			return all
		}
	}
}

func TestTone_LengthAndEnvelope(t *testing.T) {
	samples := drain(Tone(SampleRate, 440, 100*time.Millisecond, 0.5))

	require.Len(t, samples, SampleRate.N(100*time.Millisecond))
	assert.Equal(t, 0.0, samples[0][0], "attack starts silent")

	peak := 0.0
	for _, sample := range samples {
		assert.Equal(t, sample[0], sample[1])
		peak = math.Max(peak, math.Abs(sample[0]))
	}
	assert.LessOrEqual(t, peak, 0.5)
	assert.Greater(t, peak, 0.3)

	last := samples[len(samples)-1][0]
	assert.Less(t, math.Abs(last), 0.01, "decays to silence")
}

type playLog struct {
	mu    sync.Mutex
	count int
	total int
}

func (log *playLog) play(streamer beep.Streamer) {
	samples := drain(streamer)
	log.mu.Lock()
	defer log.mu.Unlock()
	log.count++
	log.total += len(samples)
}

func TestChime_PlaysWhenEnabled(t *testing.T) {
	log := &playLog{}
	opens := 0
	chime := newChime(true, nil, func() error { opens++; return nil }, log.play)

	chime.PlayPhase(breath.PhaseInhale)
	chime.PlayPhase(breath.PhaseHold2)
	chime.PlayComplete()

	assert.Equal(t, 1, opens)
	assert.Equal(t, 3, log.count)
	assert.Equal(t, 2*SampleRate.N(phaseToneLength)+3*SampleRate.N(completeToneLength), log.total)
}

func TestChime_DisabledDoesNotOpenDevice(t *testing.T) {
	log := &playLog{}
	opens := 0
	chime := newChime(false, nil, func() error { opens++; return nil }, log.play)

	chime.PlayPhase(breath.PhaseInhale)
	assert.Zero(t, opens)
	assert.Zero(t, log.count)

	chime.SetEnabled(true)
	assert.True(t, chime.Enabled())
	chime.PlayPhase(breath.PhaseExhale)
	assert.Equal(t, 1, log.count)
}

func TestChime_DeviceFailureLogsOnceAndStaysSilent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &playLog{}
	chime := newChime(true, logging.NewWithCore(core), func() error { return errors.New("no device") }, log.play)

	chime.PlayPhase(breath.PhaseInhale)
	chime.PlayComplete()

	assert.Zero(t, log.count)
	assert.Equal(t, 1, logs.Len())
}
