package staircase

import (
	"errors"
	"fmt"
	"time"

	"github.com/itohio/gotakt/pkg/debounce"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid staircase parameters")

// DefaultSeed makes a run reproducible.
const DefaultSeed = 42

// Params holds the staircase procedure configuration.
type Params struct {
	Beeps             int           // Number of beeps per round; Beeps-1 pairs are played
	BeepDuration      time.Duration // Duration of each click
	EndToneFactor     int           // End-of-round tone length in beep durations, at least 2
	ReferenceInterval time.Duration // Nominal gap between clicks
	MaxRounds         int           // Rounds 1..MaxRounds-1 are played

	InitialStep  float32 // Initial deviation half-range (ms)
	StepFloor    float32 // Step is never shrunk below this (ms)
	ShrinkFactor float32 // Applied on a Yes response
	GrowFactor   float32 // Applied on a No response

	PollInterval    time.Duration // Button polling period
	StableSamples   int           // Agreeing samples required by the debounce filter
	ResponseTimeout time.Duration // 0 waits forever

	Seed uint64
}

// DefaultParams returns the canonical instrument configuration.
func DefaultParams() Params {
	return Params{
		Beeps:             10,
		BeepDuration:      100 * time.Millisecond,
		EndToneFactor:     4,
		ReferenceInterval: 1000 * time.Millisecond,
		MaxRounds:         10,
		InitialStep:       500,
		StepFloor:         100,
		ShrinkFactor:      0.5,
		GrowFactor:        1.5,
		PollInterval:      50 * time.Millisecond,
		StableSamples:     debounce.DefaultStableSamples,
		ResponseTimeout:   0,
		Seed:              DefaultSeed,
	}
}

// Validate checks the parameters for values the engine cannot run with.
func (p Params) Validate() error {
	switch {
	case p.Beeps < 2:
		return fmt.Errorf("%w: beeps must be at least 2, got %d", ErrInvalidParams, p.Beeps)
	case p.BeepDuration <= 0:
		return fmt.Errorf("%w: beep duration must be positive", ErrInvalidParams)
	case p.EndToneFactor < 2:
		return fmt.Errorf("%w: end tone must be longer than a beep", ErrInvalidParams)
	case p.ReferenceInterval <= 0:
		return fmt.Errorf("%w: reference interval must be positive", ErrInvalidParams)
	case p.MaxRounds < 1:
		return fmt.Errorf("%w: max rounds must be at least 1, got %d", ErrInvalidParams, p.MaxRounds)
	case !(p.InitialStep > 0):
		return fmt.Errorf("%w: initial step must be positive", ErrInvalidParams)
	case p.StepFloor < 0:
		return fmt.Errorf("%w: step floor must not be negative", ErrInvalidParams)
	case !(p.ShrinkFactor > 0) || !(p.GrowFactor > 0):
		return fmt.Errorf("%w: step factors must be positive", ErrInvalidParams)
	case p.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidParams)
	case p.StableSamples < 1 || p.StableSamples > debounce.MaxStableSamples:
		return fmt.Errorf("%w: stable samples must be in [1, %d], got %d", ErrInvalidParams, debounce.MaxStableSamples, p.StableSamples)
	case p.ResponseTimeout < 0:
		return fmt.Errorf("%w: response timeout must not be negative", ErrInvalidParams)
	}
	return nil
}
