package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Withdraw request lifecycle states. queued -> submitting -> {failed, sent,
// unknown}; sent -> confirmed once the outbound transfer shows up in the
// monitored account's own history. A request never re-enters submitting, so
// a transfer is attempted at most once per row.
const (
	WithdrawStatusQueued     = 11
	WithdrawStatusSubmitting = 21
	WithdrawStatusSent       = 22
	WithdrawStatusConfirmed  = 23
	WithdrawStatusFailed     = 201
	WithdrawStatusUnknown    = 202
)

// AmountScale is the fixed-point scale of on-chain amounts (asset precision 5).
const AmountScale = 5

// WithdrawRequest is one requested outbound payment. Rows are created by the
// upstream withdrawal producer; only the disbursement engine mutates them,
// and nothing deletes them.
type WithdrawRequest struct {
	ID            int64      `gorm:"primaryKey;autoIncrement;column:id"`
	OutAddress    string     `gorm:"size:64;not null;column:out_address"`
	OutAmount     int64      `gorm:"not null;column:out_amount"`
	OutMemo       string     `gorm:"type:text;column:out_memo"`
	ProcessStatus int        `gorm:"not null;column:process_status;index"`
	OutTime       *time.Time `gorm:"column:out_time"`
	OutTrxID      string     `gorm:"size:40;column:out_trx_id;index"`
	OutBlockNum   uint64     `gorm:"column:out_block_num"`
	OutDetail     string     `gorm:"type:text;column:out_detail"`
	CreateAt      time.Time  `gorm:"column:create_at;autoCreateTime"`
}

func (WithdrawRequest) TableName() string {
	return "withdraw_request"
}

// WireAmount renders OutAmount as the node's decimal string format,
// e.g. 1234567 -> "12.34567".
func (w *WithdrawRequest) WireAmount() string {
	return FormatMinorUnits(w.OutAmount)
}

// FormatMinorUnits converts a minor-unit integer into the fixed five-digit
// decimal string the wallet RPC expects.
func FormatMinorUnits(amount int64) string {
	return decimal.New(amount, -AmountScale).StringFixed(AmountScale)
}
