package observability

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShutdownManager_Defaults(t *testing.T) {
	sm := NewShutdownManager(nil, 0)
	assert.Equal(t, DefaultShutdownTimeout, sm.shutdownTimeout)
	assert.NotNil(t, sm.logger)
}

func TestShutdown_RunsAllFunctions(t *testing.T) {
	sm := NewShutdownManager(Discard(), time.Second)

	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		sm.RegisterShutdownFunc(func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}

	require.NoError(t, sm.Shutdown())
	assert.Equal(t, int32(3), calls.Load())

	// functions run once
	require.NoError(t, sm.Shutdown())
	assert.Equal(t, int32(3), calls.Load())
}

func TestShutdown_CollectsErrors(t *testing.T) {
	sm := NewShutdownManager(Discard(), time.Second)
	boom := errors.New("boom")

	sm.RegisterShutdownFunc(func(context.Context) error { return nil })
	sm.RegisterShutdownFunc(func(context.Context) error { return boom })

	err := sm.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1 errors")
}

func TestShutdown_Timeout(t *testing.T) {
	sm := NewShutdownManager(Discard(), 20*time.Millisecond)
	release := make(chan struct{})
	defer close(release)

	sm.RegisterShutdownFunc(func(context.Context) error {
		<-release
		return nil
	})

	err := sm.Shutdown()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestShutdown_PassesDeadline(t *testing.T) {
	sm := NewShutdownManager(Discard(), time.Second)

	var hadDeadline bool
	sm.RegisterShutdownFunc(func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})

	require.NoError(t, sm.Shutdown())
	assert.True(t, hadDeadline)
}

func TestWaitForShutdown_ContextCancel(t *testing.T) {
	sm := NewShutdownManager(Discard(), time.Second)

	var called atomic.Bool
	sm.RegisterShutdownFunc(func(context.Context) error {
		called.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sm.WaitForShutdown(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("WaitForShutdown did not return")
	}
	assert.True(t, called.Load())
}
