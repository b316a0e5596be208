package monitor

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/itohio/gotakt/pkg/sim"
	"github.com/itohio/gotakt/pkg/staircase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSim_RunsToCompletion(t *testing.T) {
	var logs bytes.Buffer
	p := staircase.DefaultParams()
	s := NewSim(p, sim.DefaultConfig(), log.New(&logs, "", 0))
	assert.False(t, s.IsConnected())
	assert.Nil(t, s.Rig())

	require.NoError(t, s.Connect())
	assert.True(t, s.IsConnected())
	assert.Error(t, s.Connect(), "second connect fails")

	var got []staircase.Progress
	timeout := time.After(5 * time.Second)
loop:
	for {
		select {
		case pr, ok := <-s.Progress():
			if !ok {
				break loop
			}
			got = append(got, pr)
		case <-timeout:
			t.Fatal("simulation did not finish")
		}
	}

	require.NoError(t, s.Err())
	require.Len(t, got, p.MaxRounds-1)
	for i, pr := range got {
		assert.Equal(t, i+1, pr.Round)
		assert.Contains(t, []staircase.Response{staircase.ResponseYes, staircase.ResponseNo}, pr.Response)
	}
	assert.Len(t, s.Rig().Subject.Answers(), p.MaxRounds-1)
	assert.Contains(t, logs.String(), "INFO test finished")

	require.NoError(t, s.Close())
	assert.False(t, s.IsConnected())
}

func TestSim_InvalidParams(t *testing.T) {
	p := staircase.DefaultParams()
	p.PollInterval = 0
	s := NewSim(p, sim.DefaultConfig(), nil)

	err := s.Connect()
	assert.ErrorIs(t, err, staircase.ErrInvalidParams)
	assert.False(t, s.IsConnected())
}

// TestSim_GracefulShutdown checks that closing mid-run cancels the controller
// and closes the progress channel.
func TestSim_GracefulShutdown(t *testing.T) {
	p := staircase.DefaultParams()
	p.MaxRounds = 1000
	s := NewSim(p, sim.DefaultConfig(), nil)
	require.NoError(t, s.Connect())

	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range s.Progress() {
			received++
			if received == 3 {
				s.Close()
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Progress channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3)
	assert.Less(t, received, p.MaxRounds-1)
	assert.ErrorIs(t, s.Err(), context.Canceled)
}
