package repositories

import (
	"context"
	"errors"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// monitorCursorRepository implements MonitorCursorRepository interface
type monitorCursorRepository struct {
	db *gorm.DB
}

// NewMonitorCursorRepository creates a new monitor cursor repository
func NewMonitorCursorRepository(db *gorm.DB) domainRepos.MonitorCursorRepository {
	return &monitorCursorRepository{db: db}
}

// Get retrieves the cursor by account, nil when none exists
func (r *monitorCursorRepository) Get(ctx context.Context, account string) (*entities.MonitorCursor, error) {
	var cursor entities.MonitorCursor
	err := r.db.WithContext(ctx).Where("account_uid = ?", account).First(&cursor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cursor, nil
}

// Upsert writes the cursor row, inserting on first sight of the account
func (r *monitorCursorRepository) Upsert(ctx context.Context, cursor *entities.MonitorCursor) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_seq", "updated_at"}),
	}).Create(cursor).Error
}
