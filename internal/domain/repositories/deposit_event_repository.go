package repositories

import (
	"context"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

// DepositEventRepository stores classified account-history events.
type DepositEventRepository interface {
	// Insert appends an event row. It reports false without error when a row
	// for (monitor_account, sequence_no) already exists, so re-running a
	// partially committed page is safe.
	Insert(ctx context.Context, event *entities.DepositEvent) (bool, error)

	// ExistsBySequence checks whether the sequence number was already ingested.
	ExistsBySequence(ctx context.Context, account string, seq uint32) (bool, error)

	// GetBySequence returns one ingested event, or nil when absent.
	GetBySequence(ctx context.Context, account string, seq uint32) (*entities.DepositEvent, error)

	// UpdateProcessStatus moves an event's process status; used only by the
	// outbound reconciliation path.
	UpdateProcessStatus(ctx context.Context, id int64, status int) error

	// CountByStatus reports how many events sit in the given status.
	CountByStatus(ctx context.Context, status int) (int64, error)
}
