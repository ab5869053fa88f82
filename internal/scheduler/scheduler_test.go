package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RunsTaskImmediatelyOnStart(t *testing.T) {
	executed := make(chan struct{}, 1)

	s := NewScheduler(zap.NewNop(), 2*time.Second, func(ctx context.Context) error {
		select {
		case executed <- struct{}{}:
		default:
		}
		return nil
	})

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	assert.True(t, s.IsRunning())

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("task was not executed on start")
	}
}

func TestScheduler_StartTwice(t *testing.T) {
	s := NewScheduler(zap.NewNop(), 2*time.Second, func(ctx context.Context) error { return nil })

	require.NoError(t, s.Start(context.Background()))
	defer func() { _ = s.Stop() }()

	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)
}

func TestScheduler_StopWhenNotRunning(t *testing.T) {
	s := NewScheduler(zap.NewNop(), 2*time.Second, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)
}

func TestScheduler_StopHaltsTheLoop(t *testing.T) {
	s := NewScheduler(zap.NewNop(), 2*time.Second, func(ctx context.Context) error { return nil })

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	require.NoError(t, s.Start(context.Background()), "a stopped scheduler can be restarted")
	require.NoError(t, s.Stop())
}

func TestScheduler_ContextCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s := NewScheduler(zap.NewNop(), 2*time.Second, func(ctx context.Context) error { return nil })
	require.NoError(t, s.Start(ctx))

	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}
