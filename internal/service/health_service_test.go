package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/service"
	"github.com/sendesk/sendesk/internal/storage/memory"
)

func TestGetHealth(t *testing.T) {
	svc := service.NewService(testConfig(), memory.New(), nil, zap.NewNop())

	health := svc.Health.GetHealth()
	require.NotNil(t, health)

	assert.Equal(t, service.StatusHealthy, health.Status)
	assert.Equal(t, service.ComponentConnected, health.DatabaseStatus)
	assert.Equal(t, service.ComponentDisabled, health.RedisStatus, "redis is optional")
	assert.Equal(t, service.SchedulerStopped, health.SchedulerStatus)
	assert.Equal(t, service.BreakerClosed, health.CircuitBreakerState)
	assert.Equal(t, "No requests yet", health.CircuitBreakerStatus)
}
