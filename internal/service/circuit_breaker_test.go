package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/config"
	"github.com/sendesk/sendesk/internal/service"
)

func newBreaker(consecutiveFails uint32) *service.CircuitBreaker {
	return service.NewCircuitBreaker(&config.CircuitBreakerConfig{
		MaxRequests:      1,
		Interval:         60,
		Timeout:          60,
		FailureRatio:     0.5,
		ConsecutiveFails: consecutiveFails,
	}, zap.NewNop())
}

func TestCircuitBreaker_PassesThroughSuccess(t *testing.T) {
	cb := newBreaker(3)

	err := cb.Execute(context.Background(), func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, service.BreakerClosed, cb.GetState())

	requests, failures := cb.GetCounts()
	assert.EqualValues(t, 1, requests)
	assert.EqualValues(t, 0, failures)
}

func TestCircuitBreaker_PropagatesErrors(t *testing.T) {
	cb := newBreaker(10)
	boom := errors.New("boom")

	err := cb.Execute(context.Background(), func() error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, service.BreakerClosed, cb.GetState())
}

func TestCircuitBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	cb := newBreaker(3)
	boom := errors.New("boom")

	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), func() error { return boom })
	}
	require.Equal(t, service.BreakerOpen, cb.GetState())

	called := false
	err := cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.False(t, called, "open breaker must not invoke the function")
}

func TestCircuitBreaker_CanceledContext(t *testing.T) {
	cb := newBreaker(10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := cb.Execute(ctx, func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
