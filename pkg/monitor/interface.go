package monitor

import "github.com/itohio/gotakt/pkg/staircase"

// Source delivers the progress of a staircase run (real or simulated).
type Source interface {
	Connect() error
	Close() error
	Progress() <-chan staircase.Progress
	IsConnected() bool
}

// Ensure Serial implements Source.
var _ Source = (*Serial)(nil)

// Ensure Sim implements Source.
var _ Source = (*Sim)(nil)
