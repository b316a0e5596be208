package staircase

import "time"

// Output is a digital output line driving the audio transducer.
type Output interface {
	High() error
	Low() error
}

// Input is a digital input line. Get returns the instantaneous pin level.
type Input interface {
	Get() (bool, error)
}

// Delayer blocks the caller for the given duration.
type Delayer interface {
	Delay(d time.Duration)
}

// Rand is a uniform 32-bit random source. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Uint32() uint32
}

// Logger accepts leveled progress messages. Logging never affects control flow.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// Reporter receives a progress record after every round.
type Reporter interface {
	Report(p Progress)
}

// Hardware bundles the capabilities the engine drives.
// Yes and No are active-low: a pressed button reads false.
type Hardware struct {
	Buzzer Output
	Yes    Input
	No     Input
	Delay  Delayer
}

// Sleeper is a Delayer backed by time.Sleep.
type Sleeper struct{}

// Delay sleeps for d.
func (Sleeper) Delay(d time.Duration) {
	time.Sleep(d)
}

var _ Delayer = Sleeper{}
