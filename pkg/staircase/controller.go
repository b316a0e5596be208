package staircase

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"
)

// Phase is the controller's lifecycle state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	// PhaseFinished is terminal: all rounds were played.
	PhaseFinished
	// PhaseHalted is terminal: a capability failed or the run was cancelled.
	PhaseHalted
)

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	case PhaseHalted:
		return "halted"
	default:
		return "idle"
	}
}

// State is the adaptive state carried across rounds.
type State struct {
	Round int
	Step  float32 // Current deviation half-range (ms)
	Best  float32 // Smallest step at which a true deviation was reported (ms)
}

// Progress is emitted to the Reporter after each round.
type Progress struct {
	Round        int
	MaxRounds    int
	HasDeviation bool
	Response     Response
	Probed       float32 // Step in effect while the round was played
	Step         float32 // Step after the update
	Best         float32
}

// Options carries the optional collaborators of a Controller.
type Options struct {
	Rand     Rand     // Defaults to a PCG generator seeded with Params.Seed
	Logger   Logger   // Defaults to a no-op logger
	Reporter Reporter // Optional
}

// Controller drives rounds and adapts the step magnitude from the responses.
type Controller struct {
	params   Params
	dev      *Deviation
	runner   *Runner
	log      Logger
	reporter Reporter

	state State
	phase Phase
}

// New creates a Controller. opts may be nil.
func New(p Params, hw Hardware, opts *Options) (*Controller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}

	var dev *Deviation
	if opts.Rand != nil {
		dev = NewDeviation(opts.Rand)
	} else {
		dev = NewSeededDeviation(p.Seed)
	}

	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	return &Controller{
		params:   p,
		dev:      dev,
		runner:   NewRunner(p, hw, dev, log),
		log:      log,
		reporter: opts.Reporter,
		state: State{
			Step: p.InitialStep,
			Best: float32(p.ReferenceInterval.Milliseconds()),
		},
		phase: PhaseIdle,
	}, nil
}

// State returns a copy of the adaptive state.
func (c *Controller) State() State {
	return c.state
}

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Run plays rounds 1..MaxRounds-1. Any capability error halts the controller
// and is returned; so is cancellation of ctx.
func (c *Controller) Run(ctx context.Context) error {
	if c.phase != PhaseIdle {
		return fmt.Errorf("controller is %s", c.phase)
	}
	c.phase = PhaseRunning

	for c.state.Round+1 < c.params.MaxRounds {
		resp, err := c.Step(ctx)
		if err != nil {
			c.phase = PhaseHalted
			return err
		}
		if resp == ResponseNone {
			c.phase = PhaseHalted
			return ctx.Err()
		}
	}

	c.phase = PhaseFinished
	c.log.Infof("test finished, smallest detected deviation: %.1f ms", c.state.Best)
	return nil
}

// Step plays a single round and applies the update rule.
func (c *Controller) Step(ctx context.Context) (Response, error) {
	c.state.Round++
	round := c.state.Round

	c.log.Infof("round %d/%d with average deviation: %.1f ms", round, c.params.MaxRounds, c.state.Step)

	probed := c.state.Step
	hasDeviation := c.dev.Coin()
	resp, err := c.runner.RunRound(ctx, round, hasDeviation, probed)
	if err != nil {
		return ResponseNone, err
	}

	c.apply(hasDeviation, resp)

	c.log.Infof("smallest detected deviation: %.1f ms", c.state.Best)
	if c.reporter != nil {
		c.reporter.Report(Progress{
			Round:        round,
			MaxRounds:    c.params.MaxRounds,
			HasDeviation: hasDeviation,
			Response:     resp,
			Probed:       probed,
			Step:         c.state.Step,
			Best:         c.state.Best,
		})
	}

	return resp, nil
}

// apply updates the state from a response. The response drives the update,
// not whether the round actually carried a deviation.
func (c *Controller) apply(hasDeviation bool, resp Response) {
	s := &c.state

	switch resp {
	case ResponseYes:
		c.log.Infof("answer: yes")
		// Best takes the step in effect before shrinking.
		if hasDeviation {
			s.Best = math32.Min(s.Best, s.Step)
		}
		if s.Step > c.params.StepFloor {
			s.Step = math32.Max(s.Step*c.params.ShrinkFactor, c.params.StepFloor)
			c.log.Infof("deviation halved: %.1f ms", s.Step)
		}
	case ResponseNo:
		c.log.Infof("answer: no")
		s.Step *= c.params.GrowFactor
		c.log.Infof("deviation increased: %.1f ms", s.Step)
	case ResponseTimeout:
		c.log.Warnf("no answer within %s, step unchanged", c.params.ResponseTimeout)
	default:
		c.log.Warnf("no answer received")
	}
}
