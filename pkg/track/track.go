package track

import (
	"github.com/chewxy/math32"
	"github.com/itohio/gotakt/pkg/staircase"
)

// DefaultWindow is the number of trailing reversals averaged into the estimate.
const DefaultWindow = 4

// Summary is the running state of a session.
type Summary struct {
	Rounds    int
	Yes       int
	No        int
	Missed    int     // Timed out or aborted rounds
	Step      float32 // Step after the latest round (ms)
	Best      float32 // Smallest step with a confirmed detection (ms)
	Reversals int
	Estimate  float32 // Mean probed step over the last Window reversals (ms), 0 until the first reversal
	Spread    float32 // Largest distance between Estimate and a step in the window (ms)
	Last      staircase.Progress
}

// Tracker folds progress records into a Summary. A reversal is a round whose
// answer differs from the previous answered round.
type Tracker struct {
	window    int
	reversals []float32
	last      staircase.Response
	summary   Summary
}

// NewTracker creates a Tracker averaging the last window reversals.
func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window}
}

// Add folds p into the summary and returns it.
func (t *Tracker) Add(p staircase.Progress) Summary {
	s := &t.summary
	s.Rounds++
	s.Step = p.Step
	s.Best = p.Best
	s.Last = p

	switch p.Response {
	case staircase.ResponseYes:
		s.Yes++
	case staircase.ResponseNo:
		s.No++
	default:
		s.Missed++
		return *s
	}

	if t.last != staircase.ResponseNone && t.last != p.Response {
		t.reversals = append(t.reversals, p.Probed)
		if len(t.reversals) > t.window {
			t.reversals = t.reversals[1:] // Remove oldest
		}
		s.Reversals++
		s.Estimate = mean(t.reversals)
		s.Spread = spread(t.reversals, s.Estimate)
	}
	t.last = p.Response

	return *s
}

// Summary returns the current summary.
func (t *Tracker) Summary() Summary {
	return t.summary
}

func mean(values []float32) float32 {
	if len(values) == 0 {
		return 0
	}
	var sum float32
	for _, v := range values {
		sum += v
	}
	return sum / float32(len(values))
}

func spread(values []float32, center float32) float32 {
	var d float32
	for _, v := range values {
		d = math32.Max(d, math32.Abs(v-center))
	}
	return d
}

// Converter transforms a progress stream into a stream of summaries.
type Converter func(in <-chan staircase.Progress) <-chan Summary

// NewConverter creates a converter emitting one Summary per progress record.
// The output channel closes when the input does.
func NewConverter(window int, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 16
	}

	return func(in <-chan staircase.Progress) <-chan Summary {
		out := make(chan Summary, bufSize)

		go func() {
			defer close(out)

			t := NewTracker(window)
			for p := range in {
				out <- t.Add(p)
			}
		}()

		return out
	}
}
