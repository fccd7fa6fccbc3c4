package animation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenbox/internal/core/breath"
)

func TestDotPosition_TracesTheSquare(t *testing.T) {
	tests := []struct {
		phase    breath.Phase
		fraction float64
		want     Point
	}{
		{breath.PhaseInhale, 0, Point{0, 1}},
		{breath.PhaseInhale, 0.5, Point{0, 0.5}},
		{breath.PhaseInhale, 1, Point{0, 0}},
		{breath.PhaseHold1, 0.25, Point{0.25, 0}},
		{breath.PhaseHold1, 1, Point{1, 0}},
		{breath.PhaseExhale, 0.5, Point{1, 0.5}},
		{breath.PhaseHold2, 0.5, Point{0.5, 1}},
		{breath.PhaseHold2, 1, Point{0, 1}},
		{breath.PhaseHold2, 7, Point{0, 1}},
		{breath.PhaseExhale, -3, Point{1, 0}},
		{breath.Phase("unknown"), 0.5, Point{0, 1}},
	}
	for _, tt := range tests {
		got := DotPosition(tt.phase, tt.fraction)
		assert.InDelta(t, tt.want.X, got.X, 1e-9, "%s at %v", tt.phase, tt.fraction)
		assert.InDelta(t, tt.want.Y, got.Y, 1e-9, "%s at %v", tt.phase, tt.fraction)
	}
}

func TestDotPosition_PhasesJoinUp(t *testing.T) {
	for i := 0; i < breath.PhaseCount; i++ {
		current := breath.Sequence[i]
		next := breath.Sequence[(i+1)%breath.PhaseCount]
		assert.Equal(t, DotPosition(current, 1), DotPosition(next, 0), "%s -> %s", current, next)
	}
}

func TestBoxScale(t *testing.T) {
	config := DefaultConfig()

	assert.InDelta(t, config.MinScale, BoxScale(config, breath.PhaseInhale, 0), 1e-9)
	assert.InDelta(t, (config.MinScale+config.MaxScale)/2, BoxScale(config, breath.PhaseInhale, 0.5), 1e-9)
	assert.InDelta(t, config.MaxScale, BoxScale(config, breath.PhaseInhale, 1), 1e-9)
	assert.InDelta(t, config.MaxScale, BoxScale(config, breath.PhaseHold1, 0.3), 1e-9)
	assert.InDelta(t, config.MinScale, BoxScale(config, breath.PhaseExhale, 1), 1e-9)
	assert.InDelta(t, config.MinScale, BoxScale(config, breath.PhaseHold2, 0.6), 1e-9)
}

func TestRestFrame(t *testing.T) {
	frame := RestFrame(DefaultConfig())
	assert.Equal(t, breath.PhaseInhale, frame.Phase)
	assert.Equal(t, Point{0, 1}, frame.Dot)
	assert.Equal(t, DefaultConfig().MinScale, frame.Scale)
}

type frameLog struct {
	mu     sync.Mutex
	frames []Frame
}

func (log *frameLog) add(frame Frame) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.frames = append(log.frames, frame)
}

func (log *frameLog) all() []Frame {
	log.mu.Lock()
	defer log.mu.Unlock()
	return append([]Frame(nil), log.frames...)
}

func TestEngine_RunsPhaseToCompletion(t *testing.T) {
	log := &frameLog{}
	engine := New(Config{FrameInterval: time.Millisecond, MinScale: 0.5, MaxScale: 1}, log.add)

	engine.StartPhase(context.Background(), breath.PhaseExhale, 0.5, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		frames := log.all()
		return len(frames) > 0 && frames[len(frames)-1].Fraction == 1
	}, 2*time.Second, 5*time.Millisecond)

	frames := log.all()
	assert.Equal(t, 0.5, frames[0].Fraction)
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i].Fraction, frames[i-1].Fraction)
	}
	last := frames[len(frames)-1]
	assert.Equal(t, Point{1, 1}, last.Dot)
	assert.InDelta(t, 0.5, last.Scale, 1e-9)
	engine.Stop()
}

func TestEngine_FreezeStopsAnimation(t *testing.T) {
	log := &frameLog{}
	engine := New(Config{FrameInterval: time.Millisecond}, log.add)

	engine.StartPhase(context.Background(), breath.PhaseInhale, 0, time.Hour)
	frozen := FrameAt(engine.Config(), breath.PhaseInhale, 0.1)
	engine.Freeze(frozen)

	count := len(log.all())
	time.Sleep(20 * time.Millisecond)
	frames := log.all()
	assert.Len(t, frames, count)
	assert.Equal(t, frozen, frames[len(frames)-1])
}

func TestEngine_ZeroRemainingRendersEnd(t *testing.T) {
	log := &frameLog{}
	engine := New(DefaultConfig(), log.add)

	engine.StartPhase(context.Background(), breath.PhaseHold1, 0, 0)
	engine.Stop()

	frames := log.all()
	require.Len(t, frames, 1)
	assert.Equal(t, 1.0, frames[0].Fraction)
}

func TestNew_FillsInvalidConfig(t *testing.T) {
	engine := New(Config{MinScale: 3, MaxScale: 2}, func(Frame) {})
	config := engine.Config()
	assert.Equal(t, DefaultConfig().FrameInterval, config.FrameInterval)
	assert.Equal(t, 2.0, config.MaxScale)
	assert.InDelta(t, 1.5, config.MinScale, 1e-9)
}
