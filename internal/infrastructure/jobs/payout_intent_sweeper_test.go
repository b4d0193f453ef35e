package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type intentReleaserStub struct {
	released int
	err      error
	calls    atomic.Int32
}

func (s *intentReleaserStub) ReleaseStaleIntents(_ context.Context) (int, error) {
	s.calls.Add(1)
	return s.released, s.err
}

func TestSweep_Released(t *testing.T) {
	stub := &intentReleaserStub{released: 2}
	job := NewPayoutIntentSweeper(stub, time.Millisecond)

	job.sweep(context.Background())
	require.Equal(t, int32(1), stub.calls.Load())
}

func TestSweep_Error(t *testing.T) {
	stub := &intentReleaserStub{err: errors.New("db down")}
	job := NewPayoutIntentSweeper(stub, time.Millisecond)

	require.NotPanics(t, func() { job.sweep(context.Background()) })
	require.Equal(t, int32(1), stub.calls.Load())
}

func TestNewPayoutIntentSweeper_DefaultInterval(t *testing.T) {
	job := NewPayoutIntentSweeper(&intentReleaserStub{}, 0)
	require.Equal(t, time.Minute, job.interval)
}

func TestStartStop_TicksUntilContextCancel(t *testing.T) {
	stub := &intentReleaserStub{}
	job := NewPayoutIntentSweeper(stub, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return stub.calls.Load() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("sweeper did not stop on context cancel")
	}
}

func TestStartStop_StopsByStopChannel(t *testing.T) {
	job := NewPayoutIntentSweeper(&intentReleaserStub{}, time.Millisecond)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	job.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("sweeper did not stop on Stop()")
	}
}
