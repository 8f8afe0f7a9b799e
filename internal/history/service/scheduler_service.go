package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"workflow-runchart/pkg/logger"
)

// SchedulerService runs the sync on a cron schedule.
type SchedulerService interface {
	Start(ctx context.Context)
	Next() time.Time
}

type schedulerService struct {
	syncService SyncService
	schedule    cron.Schedule
	logger      *logger.Logger
	now         func() time.Time
}

// NewSchedulerService parses a standard five-field cron expression or descriptor.
func NewSchedulerService(syncService SyncService, logger *logger.Logger, expression string) (SchedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	schedule, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", expression, err)
	}
	return &schedulerService{
		syncService: syncService,
		schedule:    schedule,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Next returns the next time the sync will run.
func (s *schedulerService) Next() time.Time {
	return s.schedule.Next(s.now())
}

// Start blocks, running a sync at every scheduled time until ctx is done.
func (s *schedulerService) Start(ctx context.Context) {
	for {
		next := s.Next()
		s.logger.InfoContext(ctx, "Next history sync scheduled", logger.StringField("at", next.Format(time.RFC3339)))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Scheduler service stopping")
			return
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

func (s *schedulerService) runOnce(ctx context.Context) {
	result, err := s.syncService.Sync(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "History sync failed", logger.ErrorField(err))
		return
	}
	s.logger.InfoContext(ctx, "History sync finished",
		logger.IntField("added", len(result.Added)),
		logger.IntField("incomplete", result.Incomplete),
		logger.IntField("total", result.Total),
	)
}
