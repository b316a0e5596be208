package sim

import (
	"time"

	"github.com/itohio/gotakt/pkg/staircase"
)

// Config describes the simulated subject.
type Config struct {
	Threshold time.Duration // Smallest gap deviation the subject perceives
	Reaction  time.Duration // Delay between the end tone and the press
	Hold      time.Duration // How long the button is held
}

// DefaultConfig returns a subject perceiving deviations of 150 ms and more.
func DefaultConfig() Config {
	return Config{
		Threshold: 150 * time.Millisecond,
		Reaction:  400 * time.Millisecond,
		Hold:      300 * time.Millisecond,
	}
}

// Subject listens to the buzzer and answers yes when any gap of the round
// deviated from the reference interval by at least its threshold.
type Subject struct {
	cfg       Config
	clock     *Clock
	yes       *Button
	no        *Button
	beep      time.Duration
	reference time.Duration
	endTone   time.Duration

	onsets  []time.Duration
	answers []bool
}

// Observe handles one buzzer pulse.
func (s *Subject) Observe(p Pulse) {
	if p.Width >= s.endTone {
		s.answer()
		return
	}
	s.onsets = append(s.onsets, p.Start)
}

// Answers returns every answer given so far, true meaning yes.
func (s *Subject) Answers() []bool {
	return s.answers
}

func (s *Subject) answer() {
	dev := s.maxDeviation()
	perceived := dev > 0 && dev >= s.cfg.Threshold

	btn := s.no
	if perceived {
		btn = s.yes
	}
	btn.Press(s.clock.Now()+s.cfg.Reaction, s.cfg.Hold)

	s.answers = append(s.answers, perceived)
	s.onsets = s.onsets[:0]
}

// maxDeviation returns the largest difference between a heard gap and the reference.
func (s *Subject) maxDeviation() time.Duration {
	var largest time.Duration
	for i := 1; i < len(s.onsets); i++ {
		gap := s.onsets[i] - s.onsets[i-1] - s.beep
		d := gap - s.reference
		if d < 0 {
			d = -d
		}
		if d > largest {
			largest = d
		}
	}
	return largest
}

// Rig wires a clock, buzzer, two buttons and a subject together.
type Rig struct {
	Clock   *Clock
	Buzzer  *Buzzer
	Yes     *Button
	No      *Button
	Subject *Subject
}

// NewRig builds a rig for the given engine parameters.
func NewRig(p staircase.Params, cfg Config) *Rig {
	clock := &Clock{}
	r := &Rig{
		Clock:  clock,
		Buzzer: NewBuzzer(clock),
		Yes:    NewButton(clock),
		No:     NewButton(clock),
	}
	r.Subject = &Subject{
		cfg:       cfg,
		clock:     clock,
		yes:       r.Yes,
		no:        r.No,
		beep:      p.BeepDuration,
		reference: p.ReferenceInterval,
		endTone:   time.Duration(p.EndToneFactor) * p.BeepDuration,
	}
	r.Buzzer.OnPulse(r.Subject.Observe)
	return r
}

// Hardware returns the rig as engine capabilities.
func (r *Rig) Hardware() staircase.Hardware {
	return staircase.Hardware{
		Buzzer: r.Buzzer,
		Yes:    r.Yes,
		No:     r.No,
		Delay:  r.Clock,
	}
}
