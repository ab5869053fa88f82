package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sendesk/sendesk/internal/config"
	"github.com/sendesk/sendesk/internal/scheduler"
)

type schedulerService struct {
	scheduler       *scheduler.Scheduler
	dispatchService DispatchService
	logger          *zap.Logger
}

func NewSchedulerService(
	cfg *config.Config,
	dispatchService DispatchService,
	logger *zap.Logger,
) SchedulerService {
	interval := time.Duration(cfg.Scheduler.IntervalMinutes) * time.Minute

	svc := &schedulerService{
		dispatchService: dispatchService,
		logger:          logger,
	}

	svc.scheduler = scheduler.NewScheduler(logger, interval, svc.executeLaunchTask)
	return svc
}

func (s *schedulerService) Start() error {
	ctx := context.Background()
	return s.scheduler.Start(ctx)
}

func (s *schedulerService) Stop() error {
	return s.scheduler.Stop()
}

func (s *schedulerService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *schedulerService) executeLaunchTask(_ context.Context) error {
	return s.dispatchService.LaunchDueCampaigns()
}
