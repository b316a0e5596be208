package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/itohio/gotakt/pkg/sim"
	"github.com/itohio/gotakt/pkg/staircase"
)

// Sim runs the staircase engine against simulated hardware and a simulated
// subject, reporting progress like a connected device would.
type Sim struct {
	params staircase.Params
	cfg    sim.Config
	logger staircase.Logger

	rig      *sim.Rig
	progress chan staircase.Progress
	done     chan struct{}
	err      error
	mu       sync.RWMutex
	ctx      context.Context
	cancel   context.CancelFunc

	connected bool
}

// NewSim creates a simulated source. logger may be nil.
func NewSim(p staircase.Params, cfg sim.Config, logger *log.Logger) *Sim {
	ctx, cancel := context.WithCancel(context.Background())

	var l staircase.Logger
	if logger != nil {
		l = staircase.NewStdLogger(logger)
	}

	return &Sim{
		params:   p,
		cfg:      cfg,
		logger:   l,
		progress: make(chan staircase.Progress, DefaultBufferSize),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect builds the controller and starts the run.
func (s *Sim) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	s.rig = sim.NewRig(s.params, s.cfg)
	c, err := staircase.New(s.params, s.rig.Hardware(), &staircase.Options{
		Logger:   s.logger,
		Reporter: s,
	})
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	s.connected = true
	go s.run(c)

	return nil
}

// Close stops the run and waits for the progress channel to close.
func (s *Sim) Close() error {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	s.connected = false
	s.mu.Unlock()

	<-s.done
	return nil
}

// Progress returns the channel for reading progress. It is closed when the
// run ends.
func (s *Sim) Progress() <-chan staircase.Progress {
	return s.progress
}

// IsConnected returns whether the simulation was started and not closed.
func (s *Sim) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// Err returns the error that ended the run, if any. Valid once Progress is closed.
func (s *Sim) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Rig returns the simulated hardware, nil before Connect.
func (s *Sim) Rig() *sim.Rig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rig
}

// Report implements staircase.Reporter.
func (s *Sim) Report(p staircase.Progress) {
	select {
	case s.progress <- p:
	case <-s.ctx.Done():
	}
}

func (s *Sim) run(c *staircase.Controller) {
	defer close(s.done)
	defer close(s.progress)

	if err := c.Run(s.ctx); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}
