package staircase

import (
	"fmt"
	"math"
	"time"
)

// Trial describes one beep pair. The deviation lengthens the first gap and
// shortens the second by the same amount, so their sum is always twice the
// reference interval.
type Trial struct {
	HasDeviation bool
	Deviation    float32 // Drawn deviation (ms)
	Reference    time.Duration

	offset time.Duration
}

// NewTrial builds a trial around reference. The applied offset is clamped to
// [-reference, +reference] so neither gap can go negative.
func NewTrial(reference time.Duration, hasDeviation bool, deviationMs float32) Trial {
	ns := float64(deviationMs) * float64(time.Millisecond)

	var offset time.Duration
	switch {
	case math.IsNaN(ns):
	case ns >= float64(reference):
		offset = reference
	case ns <= -float64(reference):
		offset = -reference
	default:
		offset = time.Duration(ns)
	}

	return Trial{
		HasDeviation: hasDeviation,
		Deviation:    deviationMs,
		Reference:    reference,
		offset:       offset,
	}
}

// Offset returns the clamped deviation actually applied.
func (t Trial) Offset() time.Duration {
	return t.offset
}

// FirstGap is the pause after the first click.
func (t Trial) FirstGap() time.Duration {
	return t.Reference + t.offset
}

// SecondGap is the pause after the second click.
func (t Trial) SecondGap() time.Duration {
	return t.Reference - t.offset
}

// Sequencer plays timed click patterns on the buzzer line.
type Sequencer struct {
	out   Output
	delay Delayer
	beep  time.Duration
}

// NewSequencer creates a Sequencer producing clicks of the given duration.
func NewSequencer(out Output, delay Delayer, beep time.Duration) *Sequencer {
	return &Sequencer{
		out:   out,
		delay: delay,
		beep:  beep,
	}
}

// PlayPair plays click, first gap, click, second gap.
func (s *Sequencer) PlayPair(t Trial) error {
	if err := s.Tone(s.beep); err != nil {
		return err
	}
	s.delay.Delay(t.FirstGap())

	if err := s.Tone(s.beep); err != nil {
		return err
	}
	s.delay.Delay(t.SecondGap())

	return nil
}

// Tone drives the line high for d, then low.
func (s *Sequencer) Tone(d time.Duration) error {
	if err := s.out.High(); err != nil {
		return fmt.Errorf("failed to set buzzer high: %w", err)
	}
	s.delay.Delay(d)
	if err := s.out.Low(); err != nil {
		return fmt.Errorf("failed to set buzzer low: %w", err)
	}
	return nil
}
