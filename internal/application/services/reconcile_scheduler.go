package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReconcileScheduler fires one reconciliation cycle per interval. Ticks are
// non-overlapping: when a cycle overruns the interval the next tick is
// dropped, never queued.
type ReconcileScheduler struct {
	service   *ReconcileService
	cron      *cron.Cron
	interval  time.Duration
	logger    *zap.Logger
	isRunning bool
}

// NewReconcileScheduler creates a new reconcile scheduler
func NewReconcileScheduler(service *ReconcileService, interval time.Duration, logger *zap.Logger) *ReconcileScheduler {
	return &ReconcileScheduler{
		service: service,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		interval: interval,
		logger:   logger,
	}
}

// Start schedules the reconciliation cycle
func (s *ReconcileScheduler) Start() error {
	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		result := s.service.RunCycle(context.Background())
		if result.Admitted {
			s.logger.Debug("Reconciliation cycle completed",
				zap.Duration("duration", result.Duration),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("Reconcile scheduler started", zap.Duration("interval", s.interval))

	return nil
}

// Stop stops the scheduler and drains the running cycle, so shutdown never
// abandons a request mid-submission.
func (s *ReconcileScheduler) Stop() {
	if !s.isRunning {
		return
	}

	drained := s.cron.Stop()
	<-drained.Done()
	s.isRunning = false
	s.logger.Info("Reconcile scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *ReconcileScheduler) IsRunning() bool {
	return s.isRunning
}
