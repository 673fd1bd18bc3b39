package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"github.com/walletops/yoyow_bridge/internal/metrics"
	"github.com/walletops/yoyow_bridge/internal/node"
	"github.com/walletops/yoyow_bridge/internal/notification"
	"go.uber.org/zap"
)

// DisbursementService pays out queued withdraw requests, at most one per
// cycle. Order is strict FIFO: when the head of the queue exceeds the
// spendable balance the pass waits instead of skipping to a smaller request.
type DisbursementService struct {
	node         node.Client
	withdrawRepo domainRepos.WithdrawRequestRepository
	notifier     *notification.Notifier
	cfg          *config.Config
	logger       *zap.Logger
}

// NewDisbursementService creates a new disbursement service
func NewDisbursementService(
	nodeClient node.Client,
	withdrawRepo domainRepos.WithdrawRequestRepository,
	notifier *notification.Notifier,
	cfg *config.Config,
	logger *zap.Logger,
) *DisbursementService {
	return &DisbursementService{
		node:         nodeClient,
		withdrawRepo: withdrawRepo,
		notifier:     notifier,
		cfg:          cfg,
		logger:       logger,
	}
}

// Disburse runs one disbursement pass. Reserve and balance shortfalls are
// expected steady-state conditions and come back in the result, not as
// errors; only transport/store failures abort the cycle.
func (s *DisbursementService) Disburse(ctx context.Context, health *entities.HealthSnapshot) (*entities.DisburseResult, error) {
	start := time.Now()
	result := &entities.DisburseResult{Outcome: entities.DisburseOutcomeIdle}
	defer func() {
		result.Duration = time.Since(start)
		metrics.Disbursements.WithLabelValues(result.Outcome).Inc()
	}()

	queued, err := s.withdrawRepo.GetQueued(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load queued withdrawals: %w", err)
	}
	result.Queued = len(queued)
	metrics.WithdrawQueued.Set(float64(len(queued)))
	if len(queued) == 0 {
		return result, nil
	}

	account := s.cfg.Bridge.Account
	full, err := s.node.FullAccount(ctx, account)
	if err != nil {
		return result, err
	}

	if int64(full.Statistics.CSAF) < s.cfg.Bridge.ReserveFloor {
		return s.replenishReserve(ctx, result, int64(full.Statistics.CSAF))
	}

	available := full.Statistics.SpendableBalance()
	head := queued[0]
	result.RequestID = head.ID

	if available < head.OutAmount {
		result.Outcome = entities.DisburseOutcomeBalanceLow
		s.logger.Warn("Spendable balance below head-of-queue amount, waiting",
			zap.Int64("request_id", head.ID),
			zap.Int64("available", available),
			zap.Int64("out_amount", head.OutAmount),
		)
		return result, nil
	}

	// One request per cycle; the loop over the rest of the queue is the
	// next cycles' job.
	return s.submit(ctx, result, &head)
}

// replenishReserve issues a collect_csaf top-up and short-circuits the pass.
func (s *DisbursementService) replenishReserve(ctx context.Context, result *entities.DisburseResult, csaf int64) (*entities.DisburseResult, error) {
	result.Outcome = entities.DisburseOutcomeReserveLow
	account := s.cfg.Bridge.Account
	topUp := entities.FormatMinorUnits(s.cfg.Bridge.ReserveTopUp)

	s.logger.Warn("CSAF reserve below floor, requesting replenishment",
		zap.Int64("csaf", csaf),
		zap.Int64("floor", s.cfg.Bridge.ReserveFloor),
		zap.String("top_up", topUp),
	)

	if _, err := s.node.CollectCSAF(ctx, account, account, topUp, s.cfg.Bridge.AssetSymbol); err != nil {
		// The reserve check already aborted the pass; a failed top-up only
		// delays replenishment until a future cycle.
		s.logger.Error("Reserve replenishment failed", zap.Error(err))
	}
	s.notifier.Alert(fmt.Sprintf("bridge: csaf reserve low (%s), disbursement paused", entities.FormatMinorUnits(csaf)))
	return result, nil
}

// submit drives one request through the state machine: a durable submitting
// mark before the transfer, then exactly one of failed, sent or unknown.
func (s *DisbursementService) submit(ctx context.Context, result *entities.DisburseResult, req *entities.WithdrawRequest) (*entities.DisburseResult, error) {
	marked, err := s.withdrawRepo.MarkSubmitting(ctx, req.ID)
	if err != nil {
		return result, fmt.Errorf("failed to mark request %d submitting: %w", req.ID, err)
	}
	if !marked {
		// Row left queued since we read it; nothing was submitted.
		result.Outcome = entities.DisburseOutcomeIdle
		s.logger.Warn("Request no longer queued, skipping", zap.Int64("request_id", req.ID))
		return result, nil
	}

	amount := req.WireAmount()
	s.logger.Info("Submitting withdrawal transfer",
		zap.Int64("request_id", req.ID),
		zap.String("to", req.OutAddress),
		zap.String("amount", amount),
	)

	signedTx, err := s.node.Transfer(ctx, s.cfg.Bridge.Account, req.OutAddress, amount, s.cfg.Bridge.AssetSymbol, req.OutMemo)
	now := time.Now().UTC()

	var transportErr *entities.TransportError
	switch {
	case err != nil && errors.As(err, &transportErr):
		// Transport failure after submission attempt: the node may or may
		// not have broadcast. Never retry, park for manual review.
		return s.markUnknown(ctx, result, req, "transport failure during broadcast: "+err.Error(), now)

	case err != nil:
		// The node itself rejected the transfer.
		if markErr := s.withdrawRepo.MarkOutcome(ctx, req.ID, entities.WithdrawStatusFailed, "", err.Error(), now); markErr != nil {
			return result, fmt.Errorf("failed to record failure for request %d: %w", req.ID, markErr)
		}
		result.Outcome = entities.DisburseOutcomeFailed
		s.logger.Error("Withdrawal transfer rejected by node",
			zap.Int64("request_id", req.ID),
			zap.Error(err),
		)
		return result, nil

	case len(signedTx) == 0 || string(signedTx) == "null":
		return s.markUnknown(ctx, result, req, "broadcast returned empty result", now)
	}

	trxID, err := s.node.TransactionID(ctx, signedTx)
	if err != nil {
		// Broadcast likely succeeded but the id is unresolved.
		return s.markUnknown(ctx, result, req, "trx id resolution failed: "+err.Error(), now)
	}

	if err := s.withdrawRepo.MarkOutcome(ctx, req.ID, entities.WithdrawStatusSent, trxID, string(signedTx), now); err != nil {
		return result, fmt.Errorf("failed to record sent for request %d: %w", req.ID, err)
	}
	result.Outcome = entities.DisburseOutcomeSent
	result.TrxID = trxID
	s.logger.Info("Withdrawal transfer sent",
		zap.Int64("request_id", req.ID),
		zap.String("trx_id", trxID),
		zap.String("amount", amount),
	)
	return result, nil
}

// markUnknown parks a request whose outcome is ambiguous; money may have
// moved, so the row must never be dropped or retried automatically.
func (s *DisbursementService) markUnknown(ctx context.Context, result *entities.DisburseResult, req *entities.WithdrawRequest, detail string, at time.Time) (*entities.DisburseResult, error) {
	if err := s.withdrawRepo.MarkOutcome(ctx, req.ID, entities.WithdrawStatusUnknown, "", detail, at); err != nil {
		return result, fmt.Errorf("failed to record unknown outcome for request %d: %w", req.ID, err)
	}
	result.Outcome = entities.DisburseOutcomeUnknown
	s.logger.Error("Withdrawal outcome ambiguous, parked for manual review",
		zap.Int64("request_id", req.ID),
		zap.String("detail", detail),
	)
	s.notifier.Alert(fmt.Sprintf("bridge: withdrawal %d outcome unknown (%s), manual review required", req.ID, detail))
	return result, nil
}
