package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"github.com/walletops/yoyow_bridge/internal/metrics"
	"github.com/walletops/yoyow_bridge/internal/notification"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReconcileService runs one reconciliation cycle: gate, then ingestion, then
// disbursement, strictly in that order. Every failure is caught at the cycle
// boundary and converted into skip-this-cycle; the scheduler always fires
// the next tick.
type ReconcileService struct {
	db           *gorm.DB
	gate         *HealthGate
	ingestion    *IngestionService
	disbursement *DisbursementService
	withdrawRepo domainRepos.WithdrawRequestRepository
	errorLogs    domainRepos.ErrorLogsRepository
	notifier     *notification.Notifier
	cfg          *config.Config
	logger       *zap.Logger

	mu         sync.Mutex
	lastResult *entities.CycleResult
	unhealthy  bool
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(
	db *gorm.DB,
	gate *HealthGate,
	ingestion *IngestionService,
	disbursement *DisbursementService,
	withdrawRepo domainRepos.WithdrawRequestRepository,
	errorLogs domainRepos.ErrorLogsRepository,
	notifier *notification.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) *ReconcileService {
	return &ReconcileService{
		db:           db,
		gate:         gate,
		ingestion:    ingestion,
		disbursement: disbursement,
		withdrawRepo: withdrawRepo,
		errorLogs:    errorLogs,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// RunCycle executes one full reconciliation cycle. It never returns an
// error: failures are logged, audited and absorbed so the long-running
// process survives them.
func (s *ReconcileService) RunCycle(ctx context.Context) *entities.CycleResult {
	start := time.Now()
	result := &entities.CycleResult{StartedAt: start.UTC()}
	defer func() {
		result.Duration = time.Since(start)
		metrics.CycleDuration.Observe(result.Duration.Seconds())
		s.setLastResult(result)
	}()

	// The store connection is owned by the single worker; re-establish it
	// lazily when the previous cycle left it unusable.
	if err := config.Ping(s.db); err != nil {
		s.failCycle(ctx, "store connection unusable", err)
		return result
	}

	snapshot, rejection, err := s.gate.Evaluate(ctx)
	if err != nil {
		s.failCycle(ctx, "health gate failed", err)
		return result
	}
	if rejection != nil {
		result.RejectReason = rejection.Reason
		metrics.CyclesTotal.WithLabelValues("rejected").Inc()
		s.noteUnhealthy(rejection)
		return result
	}
	result.Admitted = true
	s.noteHealthy()

	ingest, err := s.ingestion.Ingest(ctx, snapshot)
	result.Ingest = ingest
	if err != nil {
		s.failCycle(ctx, "ingestion failed", err)
		return result
	}

	disburse, err := s.disbursement.Disburse(ctx, snapshot)
	result.Disburse = disburse
	if err != nil {
		s.failCycle(ctx, "disbursement failed", err)
		return result
	}

	metrics.CyclesTotal.WithLabelValues("ok").Inc()
	return result
}

// ScanStuckSubmitting reports requests left in submitting(21) by a crash
// mid-cycle. They are never re-driven automatically: the transfer may have
// broadcast, so re-submission risks double payment.
func (s *ReconcileService) ScanStuckSubmitting(ctx context.Context) ([]entities.WithdrawRequest, error) {
	stuck, err := s.withdrawRepo.GetByStatus(ctx, entities.WithdrawStatusSubmitting)
	if err != nil {
		return nil, fmt.Errorf("failed to scan submitting requests: %w", err)
	}
	for _, req := range stuck {
		s.logger.Error("Withdraw request stuck in submitting from a previous run",
			zap.Int64("request_id", req.ID),
			zap.String("to", req.OutAddress),
			zap.Int64("out_amount", req.OutAmount),
		)
	}
	if len(stuck) > 0 {
		s.notifier.Alert(fmt.Sprintf("bridge: %d withdraw request(s) stuck in submitting after restart, manual resolution required", len(stuck)))
	}
	return stuck, nil
}

// LastResult returns the most recent cycle result, nil before the first
// cycle completes.
func (s *ReconcileService) LastResult() *entities.CycleResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

func (s *ReconcileService) setLastResult(result *entities.CycleResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = result
}

func (s *ReconcileService) failCycle(ctx context.Context, action string, err error) {
	metrics.CyclesTotal.WithLabelValues("failed").Inc()
	s.logger.Error("Reconciliation cycle aborted",
		zap.String("action", action),
		zap.Error(err),
	)
	if logErr := s.errorLogs.SendErrMsg(ctx, "cycle", fmt.Errorf("%s: %w", action, err)); logErr != nil {
		s.logger.Warn("Failed to write error log", zap.Error(logErr))
	}
}

// noteUnhealthy alerts once per transition into an unhealthy state instead
// of every ten seconds.
func (s *ReconcileService) noteUnhealthy(rejection *entities.NodeUnhealthyError) {
	s.mu.Lock()
	wasHealthy := !s.unhealthy
	s.unhealthy = true
	s.mu.Unlock()
	if wasHealthy {
		s.notifier.Alert("bridge: node unhealthy, cycles paused: " + rejection.Error())
	}
}

func (s *ReconcileService) noteHealthy() {
	s.mu.Lock()
	wasUnhealthy := s.unhealthy
	s.unhealthy = false
	s.mu.Unlock()
	if wasUnhealthy {
		s.notifier.Alert("bridge: node healthy again, cycles resumed")
	}
}
