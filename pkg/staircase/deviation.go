package staircase

import (
	"math"
	"math/rand/v2"

	"github.com/chewxy/math32"
)

// Deviation draws signed timing deviations and coin flips from one seeded source.
type Deviation struct {
	rng Rand
}

// NewDeviation wraps rng.
func NewDeviation(rng Rand) *Deviation {
	return &Deviation{rng: rng}
}

// NewSeededDeviation returns a Deviation backed by a PCG generator seeded with seed.
func NewSeededDeviation(seed uint64) *Deviation {
	return NewDeviation(rand.New(rand.NewPCG(seed, seed)))
}

// Next returns a value uniformly distributed in [-bound, +bound).
// A zero, negative or NaN bound yields 0; an infinite one is capped.
func (d *Deviation) Next(bound float32) float32 {
	if !(bound > 0) {
		return 0
	}
	bound = math32.Min(bound, math.MaxFloat32)

	v := bound * (2*d.unit() - 1)
	if v >= bound {
		v = math.Nextafter32(bound, 0)
	}
	if v < -bound {
		v = -bound
	}
	return v
}

// Coin returns a uniform boolean.
func (d *Deviation) Coin() bool {
	return d.rng.Uint32()>>31 == 1
}

// unit returns a float32 in [0, 1) built from the top 24 bits.
func (d *Deviation) unit() float32 {
	return float32(d.rng.Uint32()>>8) / (1 << 24)
}
