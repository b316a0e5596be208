package staircase

import (
	"errors"
	"time"
)

var errBoom = errors.New("boom")

type fakeClock struct {
	now    time.Duration
	delays []time.Duration
}

func (c *fakeClock) Delay(d time.Duration) {
	c.now += d
	c.delays = append(c.delays, d)
}

type edge struct {
	at   time.Duration
	high bool
}

type fakeBuzzer struct {
	clock *fakeClock
	edges []edge
	fail  bool
}

func (b *fakeBuzzer) High() error {
	if b.fail {
		return errBoom
	}
	b.edges = append(b.edges, edge{at: b.clock.now, high: true})
	return nil
}

func (b *fakeBuzzer) Low() error {
	if b.fail {
		return errBoom
	}
	b.edges = append(b.edges, edge{at: b.clock.now, high: false})
	return nil
}

// pulses returns the width of every high period.
func (b *fakeBuzzer) pulses() []time.Duration {
	var out []time.Duration
	for i := 0; i+1 < len(b.edges); i += 2 {
		out = append(out, b.edges[i+1].at-b.edges[i].at)
	}
	return out
}

// fakeButton replays a script of pressed states, holding the last one.
// It reports the pin level, so pressed reads false.
type fakeButton struct {
	script []bool
	polls  int
	err    error
}

func (b *fakeButton) Get() (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	pressed := false
	if len(b.script) > 0 {
		i := b.polls
		if i >= len(b.script) {
			i = len(b.script) - 1
		}
		pressed = b.script[i]
	}
	b.polls++
	return !pressed, nil
}

func heldButton() *fakeButton     { return &fakeButton{script: []bool{true}} }
func releasedButton() *fakeButton { return &fakeButton{} }

type constRand uint32

func (r constRand) Uint32() uint32 { return uint32(r) }

type rig struct {
	clock  *fakeClock
	buzzer *fakeBuzzer
	yes    *fakeButton
	no     *fakeButton
}

func newRig(yes, no *fakeButton) *rig {
	clock := &fakeClock{}
	return &rig{
		clock:  clock,
		buzzer: &fakeBuzzer{clock: clock},
		yes:    yes,
		no:     no,
	}
}

func (r *rig) hardware() Hardware {
	return Hardware{
		Buzzer: r.buzzer,
		Yes:    r.yes,
		No:     r.no,
		Delay:  r.clock,
	}
}

type recorder struct {
	records []Progress
}

func (r *recorder) Report(p Progress) {
	r.records = append(r.records, p)
}
