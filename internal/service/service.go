package service

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/config"
	"github.com/sendesk/sendesk/internal/storage"
)

type Service struct {
	Dispatch  DispatchService
	Scheduler SchedulerService
	Health    HealthService
}

func NewService(
	cfg *config.Config,
	store storage.Storage,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	dispatchService := NewDispatchService(cfg, store, logger)
	schedulerService := NewSchedulerService(cfg, dispatchService, logger)
	healthService := NewHealthService(store, redisClient, schedulerService, dispatchService)

	return &Service{
		Dispatch:  dispatchService,
		Scheduler: schedulerService,
		Health:    healthService,
	}
}
