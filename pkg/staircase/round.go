package staircase

import (
	"context"
	"fmt"
	"time"

	"github.com/itohio/gotakt/pkg/debounce"
)

// Response is the subject's judgment for a round.
type Response uint8

const (
	// ResponseNone means the wait was aborted before any answer.
	ResponseNone Response = iota
	ResponseYes
	ResponseNo
	// ResponseTimeout is only produced when Params.ResponseTimeout is set.
	ResponseTimeout
)

func (r Response) String() string {
	switch r {
	case ResponseYes:
		return "yes"
	case ResponseNo:
		return "no"
	case ResponseTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// Runner plays one round of trials followed by the end tone and waits for
// a button press.
type Runner struct {
	params Params
	seq    *Sequencer
	dev    *Deviation
	yes    Input
	no     Input
	delay  Delayer
	log    Logger
}

// NewRunner creates a Runner on the given hardware.
func NewRunner(p Params, hw Hardware, dev *Deviation, log Logger) *Runner {
	if log == nil {
		log = nopLogger{}
	}
	return &Runner{
		params: p,
		seq:    NewSequencer(hw.Buzzer, hw.Delay, p.BeepDuration),
		dev:    dev,
		yes:    hw.Yes,
		no:     hw.No,
		delay:  hw.Delay,
		log:    log,
	}
}

// RunRound plays Beeps-1 trials, the end tone, then blocks until a debounced
// press on either button. Cancelling ctx ends the wait with ResponseNone.
func (r *Runner) RunRound(ctx context.Context, round int, hasDeviation bool, step float32) (Response, error) {
	for i := 1; i < r.params.Beeps; i++ {
		var deviation float32
		if hasDeviation {
			deviation = r.dev.Next(step)
		}

		trial := NewTrial(r.params.ReferenceInterval, hasDeviation, deviation)
		if err := r.seq.PlayPair(trial); err != nil {
			return ResponseNone, fmt.Errorf("round %d trial %d: %w", round, i, err)
		}
	}

	endTone := time.Duration(r.params.EndToneFactor) * r.params.BeepDuration
	if err := r.seq.Tone(endTone); err != nil {
		return ResponseNone, fmt.Errorf("round %d end tone: %w", round, err)
	}

	return r.awaitResponse(ctx)
}

// awaitResponse polls both buttons through fresh debounce filters.
func (r *Runner) awaitResponse(ctx context.Context) (Response, error) {
	yes := debounce.New(r.params.StableSamples, false)
	no := debounce.New(r.params.StableSamples, false)

	var waited time.Duration
	for {
		if ctx.Err() != nil {
			return ResponseNone, nil
		}

		yesPressed, err := pressed(r.yes)
		if err != nil {
			return ResponseNone, fmt.Errorf("failed to read yes button: %w", err)
		}
		noPressed, err := pressed(r.no)
		if err != nil {
			return ResponseNone, fmt.Errorf("failed to read no button: %w", err)
		}

		yesEdge := yes.Update(yesPressed)
		noEdge := no.Update(noPressed)

		if yesEdge == debounce.Rising {
			r.log.Infof("user input: yes")
			return ResponseYes, nil
		}
		if noEdge == debounce.Rising {
			r.log.Infof("user input: no")
			return ResponseNo, nil
		}

		if r.params.ResponseTimeout > 0 && waited >= r.params.ResponseTimeout {
			return ResponseTimeout, nil
		}

		r.delay.Delay(r.params.PollInterval)
		waited += r.params.PollInterval
	}
}

// pressed reads an active-low button.
func pressed(in Input) (bool, error) {
	level, err := in.Get()
	if err != nil {
		return false, err
	}
	return !level, nil
}
