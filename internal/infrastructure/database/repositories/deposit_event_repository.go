package repositories

import (
	"context"
	"errors"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// depositEventRepository implements DepositEventRepository interface
type depositEventRepository struct {
	db *gorm.DB
}

// NewDepositEventRepository creates a new deposit event repository
func NewDepositEventRepository(db *gorm.DB) domainRepos.DepositEventRepository {
	return &depositEventRepository{db: db}
}

// Insert appends an event row, reporting false when the unique key
// (monitor_account, sequence_no) already exists
func (r *depositEventRepository) Insert(ctx context.Context, event *entities.DepositEvent) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "monitor_account"}, {Name: "sequence_no"}},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExistsBySequence checks whether the sequence number was already ingested
func (r *depositEventRepository) ExistsBySequence(ctx context.Context, account string, seq uint32) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.DepositEvent{}).
		Where("monitor_account = ? AND sequence_no = ?", account, seq).
		Count(&count).Error
	return count > 0, err
}

// GetBySequence retrieves one ingested event, nil when absent
func (r *depositEventRepository) GetBySequence(ctx context.Context, account string, seq uint32) (*entities.DepositEvent, error) {
	var event entities.DepositEvent
	err := r.db.WithContext(ctx).
		Where("monitor_account = ? AND sequence_no = ?", account, seq).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// UpdateProcessStatus moves an event's process status by row id
func (r *depositEventRepository) UpdateProcessStatus(ctx context.Context, id int64, status int) error {
	return r.db.WithContext(ctx).Model(&entities.DepositEvent{}).
		Where("id = ?", id).
		Update("process_status", status).Error
}

// CountByStatus reports how many events sit in the given status
func (r *depositEventRepository) CountByStatus(ctx context.Context, status int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.DepositEvent{}).
		Where("process_status = ?", status).
		Count(&count).Error
	return count, err
}
