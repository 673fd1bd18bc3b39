package repositories

import (
	"context"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"gorm.io/gorm"
)

// errorLogsRepository implements ErrorLogsRepository interface
type errorLogsRepository struct {
	db *gorm.DB
}

// NewErrorLogsRepository creates a new error logs repository
func NewErrorLogsRepository(db *gorm.DB) domainRepos.ErrorLogsRepository {
	return &errorLogsRepository{db: db}
}

// Create creates a new error log
func (r *errorLogsRepository) Create(ctx context.Context, errorLog *entities.ErrorLogs) error {
	return r.db.WithContext(ctx).Create(errorLog).Error
}

// SendErrMsg sends error message to error_logs table
func (r *errorLogsRepository) SendErrMsg(ctx context.Context, code string, err error) error {
	errorLog := entities.ErrorLogs{
		Code: code,
		Msg:  err.Error(),
	}
	return r.Create(ctx, &errorLog)
}
