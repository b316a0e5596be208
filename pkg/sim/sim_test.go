package sim

import (
	"context"
	"testing"
	"time"

	"github.com/itohio/gotakt/pkg/staircase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	records []staircase.Progress
}

func (r *recorder) Report(p staircase.Progress) {
	r.records = append(r.records, p)
}

func TestClock_Delay(t *testing.T) {
	c := &Clock{}
	c.Delay(100 * time.Millisecond)
	c.Delay(-time.Second)
	c.Delay(50 * time.Millisecond)
	assert.Equal(t, 150*time.Millisecond, c.Now())
}

func TestBuzzer_RecordsPulses(t *testing.T) {
	c := &Clock{}
	b := NewBuzzer(c)

	var seen []Pulse
	b.OnPulse(func(p Pulse) { seen = append(seen, p) })

	require.NoError(t, b.Low()) // low while low is not a pulse
	require.NoError(t, b.High())
	c.Delay(100 * time.Millisecond)
	require.NoError(t, b.High()) // already high
	c.Delay(50 * time.Millisecond)
	require.NoError(t, b.Low())
	c.Delay(time.Second)
	require.NoError(t, b.High())
	c.Delay(400 * time.Millisecond)
	require.NoError(t, b.Low())

	want := []Pulse{
		{Start: 0, Width: 150 * time.Millisecond},
		{Start: 1150 * time.Millisecond, Width: 400 * time.Millisecond},
	}
	assert.Equal(t, want, b.Pulses())
	assert.Equal(t, want, seen)
}

func TestButton_ActiveLow(t *testing.T) {
	c := &Clock{}
	b := NewButton(c)

	level, err := b.Get()
	require.NoError(t, err)
	assert.True(t, level, "released button reads high")

	b.Press(100*time.Millisecond, 200*time.Millisecond)
	assert.False(t, b.Pressed())

	c.Delay(100 * time.Millisecond)
	level, _ = b.Get()
	assert.False(t, level)

	c.Delay(199 * time.Millisecond)
	assert.True(t, b.Pressed())

	c.Delay(time.Millisecond)
	assert.False(t, b.Pressed())
}

func playRound(r *Rig, offsets ...time.Duration) {
	beep := 100 * time.Millisecond
	tone := func(d time.Duration) {
		r.Buzzer.High()
		r.Clock.Delay(d)
		r.Buzzer.Low()
	}
	for _, off := range offsets {
		tone(beep)
		r.Clock.Delay(time.Second + off)
		tone(beep)
		r.Clock.Delay(time.Second - off)
	}
	tone(4 * beep)
}

func TestSubject_Answers(t *testing.T) {
	tests := []struct {
		name    string
		offsets []time.Duration
		wantYes bool
	}{
		{"no deviation", []time.Duration{0, 0, 0}, false},
		{"below threshold", []time.Duration{100 * time.Millisecond, -120 * time.Millisecond}, false},
		{"at threshold", []time.Duration{0, 150 * time.Millisecond}, true},
		{"negative above threshold", []time.Duration{-300 * time.Millisecond, 10 * time.Millisecond}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRig(staircase.DefaultParams(), DefaultConfig())
			playRound(r, tt.offsets...)

			require.Equal(t, []bool{tt.wantYes}, r.Subject.Answers())

			pressed, idle := r.No, r.Yes
			if tt.wantYes {
				pressed, idle = r.Yes, r.No
			}
			assert.False(t, pressed.Pressed(), "press starts after the reaction time")
			r.Clock.Delay(DefaultConfig().Reaction)
			assert.True(t, pressed.Pressed())
			assert.False(t, idle.Pressed())
		})
	}
}

func TestRig_FullRun(t *testing.T) {
	p := staircase.DefaultParams()
	cfg := DefaultConfig()
	r := NewRig(p, cfg)
	rec := &recorder{}

	c, err := staircase.New(p, r.Hardware(), &staircase.Options{Reporter: rec})
	require.NoError(t, err)
	require.NoError(t, c.Run(context.Background()))

	assert.Equal(t, staircase.PhaseFinished, c.Phase())
	answers := r.Subject.Answers()
	require.Len(t, answers, p.MaxRounds-1)
	require.Len(t, rec.records, p.MaxRounds-1)

	threshold := float32(cfg.Threshold.Milliseconds())
	for i, pr := range rec.records {
		want := staircase.ResponseNo
		if answers[i] {
			want = staircase.ResponseYes
		}
		assert.Equal(t, want, pr.Response, "round %d", pr.Round)

		if !pr.HasDeviation {
			assert.Equal(t, staircase.ResponseNo, pr.Response, "undeviated rounds are never perceived")
		}
		if pr.Response == staircase.ResponseYes {
			assert.Greater(t, pr.Probed, threshold, "a perceived deviation is smaller than the probed step")
		}
	}

	best := c.State().Best
	assert.True(t, best == 1000 || best > threshold)
}

func TestRig_Reproducible(t *testing.T) {
	run := func() []Pulse {
		p := staircase.DefaultParams()
		r := NewRig(p, DefaultConfig())
		c, err := staircase.New(p, r.Hardware(), nil)
		require.NoError(t, err)
		require.NoError(t, c.Run(context.Background()))
		return r.Buzzer.Pulses()
	}

	assert.Equal(t, run(), run())
}
