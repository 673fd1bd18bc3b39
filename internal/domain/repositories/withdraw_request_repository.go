package repositories

import (
	"context"
	"time"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

// WithdrawRequestRepository drives the outbound payment state machine. Only
// the disbursement engine (and the ingestion confirmation path) write here.
type WithdrawRequestRepository interface {
	// GetQueued returns all queued(11) requests, oldest row first.
	GetQueued(ctx context.Context) ([]entities.WithdrawRequest, error)

	// MarkSubmitting transitions queued(11) -> submitting(21). It reports
	// false when the row was not in queued, so a transition can never skip
	// or re-enter submitting.
	MarkSubmitting(ctx context.Context, id int64) (bool, error)

	// MarkOutcome transitions submitting(21) to one of failed(201), sent(22)
	// or unknown(202), recording trx id, detail and timestamp.
	MarkOutcome(ctx context.Context, id int64, status int, trxID, detail string, at time.Time) error

	// ConfirmSent transitions the sent(22) request with the given trx id to
	// confirmed(23) and records the containing block. It reports false when
	// no matching in-flight request exists.
	ConfirmSent(ctx context.Context, trxID string, blockNum uint64) (bool, error)

	// GetByStatus returns requests in the given status, oldest row first.
	GetByStatus(ctx context.Context, status int) ([]entities.WithdrawRequest, error)

	// CountByStatus reports how many requests sit in the given status.
	CountByStatus(ctx context.Context, status int) (int64, error)
}
