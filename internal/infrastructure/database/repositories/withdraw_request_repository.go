package repositories

import (
	"context"
	"time"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"gorm.io/gorm"
)

// withdrawRequestRepository implements WithdrawRequestRepository interface
type withdrawRequestRepository struct {
	db *gorm.DB
}

// NewWithdrawRequestRepository creates a new withdraw request repository
func NewWithdrawRequestRepository(db *gorm.DB) domainRepos.WithdrawRequestRepository {
	return &withdrawRequestRepository{db: db}
}

// GetQueued retrieves all queued requests, oldest row first
func (r *withdrawRequestRepository) GetQueued(ctx context.Context) ([]entities.WithdrawRequest, error) {
	return r.GetByStatus(ctx, entities.WithdrawStatusQueued)
}

// GetByStatus retrieves requests in the given status, oldest row first
func (r *withdrawRequestRepository) GetByStatus(ctx context.Context, status int) ([]entities.WithdrawRequest, error) {
	var requests []entities.WithdrawRequest
	err := r.db.WithContext(ctx).
		Where("process_status = ?", status).
		Order("id ASC").
		Find(&requests).Error
	return requests, err
}

// MarkSubmitting transitions queued -> submitting; the status guard in the
// WHERE clause makes the transition race- and rerun-safe
func (r *withdrawRequestRepository) MarkSubmitting(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.WithdrawRequest{}).
		Where("id = ? AND process_status = ?", id, entities.WithdrawStatusQueued).
		Update("process_status", entities.WithdrawStatusSubmitting)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkOutcome transitions submitting to a terminal-or-sent status and
// records the attempt details
func (r *withdrawRequestRepository) MarkOutcome(ctx context.Context, id int64, status int, trxID, detail string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entities.WithdrawRequest{}).
		Where("id = ? AND process_status = ?", id, entities.WithdrawStatusSubmitting).
		Updates(map[string]interface{}{
			"process_status": status,
			"out_trx_id":     trxID,
			"out_detail":     detail,
			"out_time":       at,
		}).Error
}

// ConfirmSent transitions the sent request matching the trx id to confirmed
func (r *withdrawRequestRepository) ConfirmSent(ctx context.Context, trxID string, blockNum uint64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&entities.WithdrawRequest{}).
		Where("out_trx_id = ? AND process_status = ?", trxID, entities.WithdrawStatusSent).
		Updates(map[string]interface{}{
			"process_status": entities.WithdrawStatusConfirmed,
			"out_block_num":  blockNum,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByStatus reports how many requests sit in the given status
func (r *withdrawRequestRepository) CountByStatus(ctx context.Context, status int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.WithdrawRequest{}).
		Where("process_status = ?", status).
		Count(&count).Error
	return count, err
}
