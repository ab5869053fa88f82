package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sendesk/sendesk/internal/storage"
)

type healthService struct {
	store            storage.Storage
	redisClient      *redis.Client
	schedulerService SchedulerService
	dispatchService  DispatchService
}

func NewHealthService(
	store storage.Storage,
	redisClient *redis.Client,
	schedulerService SchedulerService,
	dispatchService DispatchService,
) HealthService {
	return &healthService{
		store:            store,
		redisClient:      redisClient,
		schedulerService: schedulerService,
		dispatchService:  dispatchService,
	}
}

func (s *healthService) GetHealth() *HealthStatus {
	status := &HealthStatus{
		Status: StatusHealthy,
	}

	if s.schedulerService.IsRunning() {
		status.SchedulerStatus = SchedulerRunning
	} else {
		status.SchedulerStatus = SchedulerStopped
	}

	status.DatabaseStatus = s.checkStorageHealth()
	status.RedisStatus = s.checkRedisHealth()

	state, requests, failures := s.dispatchService.GetCircuitBreakerStatus()
	status.CircuitBreakerState = state
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.DatabaseStatus == ComponentDisconnected || status.RedisStatus == ComponentDisconnected {
		status.Status = StatusUnhealthy
	}

	if state == BreakerOpen {
		status.Status = StatusDegraded
	}

	return status
}

func (s *healthService) checkStorageHealth() string {
	if err := s.store.Ping(); err != nil {
		return ComponentDisconnected
	}
	return ComponentConnected
}

func (s *healthService) checkRedisHealth() string {
	if s.redisClient == nil {
		return ComponentDisabled
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return ComponentDisconnected
	}

	return ComponentConnected
}
