package repositories

import (
	"context"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

// ErrorLogsRepository records cycle failures for auditing.
type ErrorLogsRepository interface {
	Create(ctx context.Context, errorLog *entities.ErrorLogs) error

	// SendErrMsg writes an error with a code to the error_logs table.
	SendErrMsg(ctx context.Context, code string, err error) error
}
