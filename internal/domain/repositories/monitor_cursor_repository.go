package repositories

import (
	"context"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

// MonitorCursorRepository persists the per-account ingestion checkpoint.
type MonitorCursorRepository interface {
	// Get returns the cursor for the account, or nil when none exists yet.
	Get(ctx context.Context, account string) (*entities.MonitorCursor, error)

	// Upsert writes the cursor row, creating it on first sight of the account.
	Upsert(ctx context.Context, cursor *entities.MonitorCursor) error
}
