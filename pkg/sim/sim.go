// Package sim provides virtual hardware for running the staircase engine on a
// host: a clock that advances instead of sleeping, a buzzer that records its
// pulses, active-low buttons, and a subject that listens to the buzzer and
// answers after every end tone.
package sim

import (
	"time"

	"github.com/itohio/gotakt/pkg/staircase"
)

// Clock is a virtual monotonic clock.
type Clock struct {
	now time.Duration
}

var _ staircase.Delayer = (*Clock)(nil)

// Delay advances the clock by d. Negative durations are ignored.
func (c *Clock) Delay(d time.Duration) {
	if d > 0 {
		c.now += d
	}
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	return c.now
}

// Pulse is one high period of the buzzer line.
type Pulse struct {
	Start time.Duration
	Width time.Duration
}

// Buzzer records high periods of the output line.
type Buzzer struct {
	clock     *Clock
	high      bool
	since     time.Duration
	pulses    []Pulse
	listeners []func(Pulse)
}

var _ staircase.Output = (*Buzzer)(nil)

// NewBuzzer creates a Buzzer timed by clock.
func NewBuzzer(clock *Clock) *Buzzer {
	return &Buzzer{clock: clock}
}

// High drives the line high.
func (b *Buzzer) High() error {
	if !b.high {
		b.high = true
		b.since = b.clock.Now()
	}
	return nil
}

// Low drives the line low, completing a pulse if the line was high.
func (b *Buzzer) Low() error {
	if !b.high {
		return nil
	}
	b.high = false

	p := Pulse{Start: b.since, Width: b.clock.Now() - b.since}
	b.pulses = append(b.pulses, p)
	for _, fn := range b.listeners {
		fn(p)
	}
	return nil
}

// OnPulse registers fn to be called after every completed pulse.
func (b *Buzzer) OnPulse(fn func(Pulse)) {
	b.listeners = append(b.listeners, fn)
}

// Pulses returns all completed pulses.
func (b *Buzzer) Pulses() []Pulse {
	return b.pulses
}

// Button is an active-low push-button: Get reads false while pressed.
type Button struct {
	clock *Clock
	from  time.Duration
	until time.Duration
}

var _ staircase.Input = (*Button)(nil)

// NewButton creates a released Button timed by clock.
func NewButton(clock *Clock) *Button {
	return &Button{clock: clock}
}

// Press holds the button down during [at, at+hold).
func (b *Button) Press(at, hold time.Duration) {
	b.from = at
	b.until = at + hold
}

// Pressed reports whether the button is down now.
func (b *Button) Pressed() bool {
	now := b.clock.Now()
	return now >= b.from && now < b.until
}

// Get returns the pin level.
func (b *Button) Get() (bool, error) {
	return !b.Pressed(), nil
}
