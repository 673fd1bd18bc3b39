package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"github.com/walletops/yoyow_bridge/internal/metrics"
	"github.com/walletops/yoyow_bridge/internal/node"
	"go.uber.org/zap"
)

// memoPattern accepts a decimal internal ledger user id. Anything else is a
// bad memo and the deposit is parked for manual handling.
var memoPattern = regexp.MustCompile(`^[0-9]{1,20}$`)

// IngestionService advances the monitored account's history cursor, stopping
// at the irreversibility boundary, and records each transfer exactly once.
type IngestionService struct {
	node         node.Client
	cursorRepo   domainRepos.MonitorCursorRepository
	depositRepo  domainRepos.DepositEventRepository
	withdrawRepo domainRepos.WithdrawRequestRepository
	cfg          *config.Config
	logger       *zap.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	nodeClient node.Client,
	cursorRepo domainRepos.MonitorCursorRepository,
	depositRepo domainRepos.DepositEventRepository,
	withdrawRepo domainRepos.WithdrawRequestRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *IngestionService {
	return &IngestionService{
		node:         nodeClient,
		cursorRepo:   cursorRepo,
		depositRepo:  depositRepo,
		withdrawRepo: withdrawRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

// Ingest runs one ingestion pass. The LIB cutoff comes from this cycle's
// health snapshot and is never refetched mid-pass. The cursor is persisted
// after every fully processed page, so a crash loses at most one page of
// progress and the duplicate check makes the rerun safe.
func (s *IngestionService) Ingest(ctx context.Context, health *entities.HealthSnapshot) (*entities.IngestResult, error) {
	start := time.Now()
	account := s.cfg.Bridge.Account

	cursor, err := s.cursorRepo.Get(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to load cursor: %w", err)
	}
	if cursor == nil {
		cursor = &entities.MonitorCursor{AccountUID: account, NextSeq: 1, UpdatedAt: time.Now().UTC()}
		if err := s.cursorRepo.Upsert(ctx, cursor); err != nil {
			return nil, fmt.Errorf("failed to seed cursor: %w", err)
		}
		s.logger.Info("Seeded monitor cursor", zap.String("account", account))
	}

	result := &entities.IngestResult{
		Account:  account,
		StartSeq: cursor.NextSeq,
		NextSeq:  cursor.NextSeq,
	}

	maxSeq, err := s.remoteMaxSequence(ctx, account)
	if err != nil {
		return result, err
	}
	if maxSeq < cursor.NextSeq {
		result.Duration = time.Since(start)
		return result, nil
	}

	nextSeq := cursor.NextSeq
	pageSize := uint32(s.cfg.Bridge.PageSize)
	var cachedBlock *blockCacheEntry

pages:
	for nextSeq <= maxSeq {
		pageEnd := nextSeq + pageSize - 1
		if pageEnd > maxSeq {
			pageEnd = maxSeq
		}

		page, err := s.fetchPageAscending(ctx, account, nextSeq, pageEnd)
		if err != nil {
			return result, err
		}
		result.Pages++

		for i := range page {
			detail := &page[i]

			// Hard cutoff: the record is still reorganizable, leave it and
			// everything after it for a future cycle.
			if detail.Op.BlockNum >= health.LastIrreversibleBlockNum {
				result.CutoffHit = true
				break pages
			}

			result.Scanned++
			nextSeq = detail.Sequence + 1

			if detail.Op.Op.Code != node.OpCodeTransfer {
				result.Skipped++
				continue
			}

			exists, err := s.depositRepo.ExistsBySequence(ctx, account, detail.Sequence)
			if err != nil {
				return result, fmt.Errorf("failed duplicate check at seq %d: %w", detail.Sequence, err)
			}
			if exists {
				result.Duplicates++
				metrics.DuplicatesSkipped.Inc()
				continue
			}

			if cachedBlock == nil || cachedBlock.num != detail.Op.BlockNum {
				block, err := s.node.Block(ctx, detail.Op.BlockNum)
				if err != nil {
					return result, err
				}
				cachedBlock = &blockCacheEntry{num: detail.Op.BlockNum, block: block}
			}

			if err := s.ingestTransfer(ctx, detail, cachedBlock.block, result); err != nil {
				return result, err
			}
		}

		// Page fully processed, checkpoint the cursor before fetching more.
		if err := s.persistCursor(ctx, cursor, nextSeq); err != nil {
			return result, err
		}
		result.NextSeq = nextSeq
	}

	if err := s.persistCursor(ctx, cursor, nextSeq); err != nil {
		return result, err
	}
	result.NextSeq = nextSeq
	result.Duration = time.Since(start)

	s.logger.Info("Ingestion pass completed",
		zap.String("account", account),
		zap.Uint32("start_seq", result.StartSeq),
		zap.Uint32("next_seq", result.NextSeq),
		zap.Int("pages", result.Pages),
		zap.Int("inserted", result.Inserted),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("skipped", result.Skipped),
		zap.Int("confirmed", result.Confirmed),
		zap.Bool("cutoff_hit", result.CutoffHit),
		zap.Duration("duration", result.Duration),
	)

	return result, nil
}

type blockCacheEntry struct {
	num   uint64
	block *node.BlockInfo
}

// remoteMaxSequence asks for the newest history entry; its sequence is the
// highest available. Zero means the account has no history yet.
func (s *IngestionService) remoteMaxSequence(ctx context.Context, account string) (uint32, error) {
	newest, err := s.node.RelativeAccountHistory(ctx, account, 0, 1, 0)
	if err != nil {
		return 0, err
	}
	if len(newest) == 0 {
		return 0, nil
	}
	return newest[0].Sequence, nil
}

// fetchPageAscending fetches [startSeq, endSeq] and reorders the node's
// newest-first page into processing order.
func (s *IngestionService) fetchPageAscending(ctx context.Context, account string, startSeq, endSeq uint32) ([]node.OperationDetail, error) {
	limit := int(endSeq - startSeq + 1)
	stop := startSeq - 1
	page, err := s.node.RelativeAccountHistory(ctx, account, stop, limit, endSeq)
	if err != nil {
		return nil, err
	}
	sort.Slice(page, func(i, j int) bool { return page[i].Sequence < page[j].Sequence })
	return page, nil
}

func (s *IngestionService) persistCursor(ctx context.Context, cursor *entities.MonitorCursor, nextSeq uint32) error {
	if nextSeq == cursor.NextSeq {
		return nil
	}
	cursor.NextSeq = nextSeq
	cursor.UpdatedAt = time.Now().UTC()
	if err := s.cursorRepo.Upsert(ctx, cursor); err != nil {
		return fmt.Errorf("failed to persist cursor at seq %d: %w", nextSeq, err)
	}
	metrics.CursorNextSeq.Set(float64(nextSeq))
	return nil
}

// ingestTransfer classifies one transfer entry, inserts its event row and,
// for outbound transfers, reconciles any matching in-flight withdrawal.
func (s *IngestionService) ingestTransfer(ctx context.Context, detail *node.OperationDetail, block *node.BlockInfo, result *entities.IngestResult) error {
	xfer, err := detail.Op.Op.Transfer()
	if err != nil {
		return err
	}

	trxID := block.TrxID(detail.Op.TrxInBlock)
	event := &entities.DepositEvent{
		MonitorAccount: s.cfg.Bridge.Account,
		SequenceNo:     detail.Sequence,
		FromAccount:    xfer.From.String(),
		ToAccount:      xfer.To.String(),
		Amount:         int64(xfer.Amount.Amount),
		AssetID:        xfer.Amount.AssetID,
		DecryptedMemo:  detail.Memo,
		Description:    detail.Description,
		BlockNum:       detail.Op.BlockNum,
		BlockTime:      block.Timestamp.Time,
		TrxInBlock:     detail.Op.TrxInBlock,
		OpInTrx:        detail.Op.OpInTrx,
		VirtualOp:      detail.Op.VirtualOp,
		TrxID:          trxID,
		CreatedAt:      time.Now().UTC(),
	}
	event.ProcessStatus = s.classify(xfer, detail.Memo)

	inserted, err := s.depositRepo.Insert(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to insert deposit event seq %d: %w", detail.Sequence, err)
	}
	if !inserted {
		result.Duplicates++
		metrics.DuplicatesSkipped.Inc()
		return nil
	}
	result.Inserted++
	metrics.EventsIngested.WithLabelValues(strconv.Itoa(event.ProcessStatus)).Inc()

	if event.ProcessStatus == entities.DepositStatusOutboundAck && trxID != "" {
		matched, err := s.withdrawRepo.ConfirmSent(ctx, trxID, detail.Op.BlockNum)
		if err != nil {
			return fmt.Errorf("failed to confirm withdrawal for trx %s: %w", trxID, err)
		}
		if matched {
			if err := s.depositRepo.UpdateProcessStatus(ctx, event.ID, entities.DepositStatusOutboundSettled); err != nil {
				return fmt.Errorf("failed to settle deposit event %d: %w", event.ID, err)
			}
			result.Confirmed++
			s.logger.Info("Confirmed outbound withdrawal",
				zap.String("trx_id", trxID),
				zap.Uint64("block_num", detail.Op.BlockNum),
				zap.Uint32("sequence_no", detail.Sequence),
			)
		}
	}

	return nil
}

// classify applies the settlement policy in order, first match wins.
func (s *IngestionService) classify(xfer *node.TransferOperation, memo string) int {
	switch {
	case xfer.From.String() == s.cfg.Bridge.Account:
		return entities.DepositStatusOutboundAck
	case xfer.Amount.AssetID != s.cfg.Bridge.AssetID:
		return entities.DepositStatusWrongAsset
	case memo == "":
		return entities.DepositStatusEmptyMemo
	case !memoPattern.MatchString(memo):
		return entities.DepositStatusBadMemo
	default:
		return entities.DepositStatusGoodMemo
	}
}
