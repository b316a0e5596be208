package debounce

// Edge is a transition of the debounced level.
type Edge uint8

const (
	None Edge = iota
	Rising
	Falling
)

// DefaultStableSamples is the number of agreeing samples needed to accept a new level.
const DefaultStableSamples = 3

// MaxStableSamples is the deepest history a Filter can hold.
const MaxStableSamples = 32

func (e Edge) String() string {
	switch e {
	case Rising:
		return "rising"
	case Falling:
		return "falling"
	default:
		return "none"
	}
}

// Filter turns a bouncing boolean line into a stable level and edge events.
// It keeps the last N raw samples as a bit history and accepts a new level
// once all N agree and differ from the current one.
//
// Filter never blocks; the caller polls it at a fixed interval, so the
// effective settle time is N times the poll interval.
type Filter struct {
	history uint32
	mask    uint32
	level   bool
}

// New creates a Filter requiring n consecutive agreeing samples, starting at
// the given level. n is clamped to [1, MaxStableSamples].
func New(n int, initial bool) *Filter {
	if n < 1 {
		n = 1
	}
	if n > MaxStableSamples {
		n = MaxStableSamples
	}

	f := &Filter{
		mask:  uint32(1<<uint(n) - 1),
		level: initial,
	}
	if initial {
		f.history = f.mask
	}
	return f
}

// Update feeds one raw sample and returns the resulting edge, if any.
func (f *Filter) Update(raw bool) Edge {
	f.history <<= 1
	if raw {
		f.history |= 1
	}
	f.history &= f.mask

	switch {
	case f.history == f.mask && !f.level:
		f.level = true
		return Rising
	case f.history == 0 && f.level:
		f.level = false
		return Falling
	}
	return None
}

// Level returns the last accepted stable level.
func (f *Filter) Level() bool {
	return f.level
}
