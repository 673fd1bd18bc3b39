package entities

import "time"

// Deposit event process status values. Classification assigns one of these
// when the event row is inserted; only the outbound reconciliation path may
// change it afterwards.
const (
	DepositStatusOutboundAck     = 2   // transfer sent by the monitored account itself
	DepositStatusOutboundSettled = 3   // outbound transfer matched to a sent withdrawal
	DepositStatusGoodMemo        = 11  // inbound transfer with a valid memo
	DepositStatusWrongAsset      = 101 // inbound transfer in an asset we do not credit
	DepositStatusEmptyMemo       = 102 // inbound transfer without a memo
	DepositStatusBadMemo         = 104 // inbound transfer whose memo failed validation
)

// DepositEvent is one account-history entry classified as a transfer.
// (monitor_account, sequence_no) is unique; rows are immutable after insert
// except for ProcessStatus.
type DepositEvent struct {
	ID             int64     `gorm:"primaryKey;autoIncrement;column:id"`
	MonitorAccount string    `gorm:"size:64;not null;column:monitor_account;uniqueIndex:idx_deposit_event_account_seq"`
	SequenceNo     uint32    `gorm:"not null;column:sequence_no;uniqueIndex:idx_deposit_event_account_seq"`
	FromAccount    string    `gorm:"size:64;column:from_account"`
	ToAccount      string    `gorm:"size:64;column:to_account"`
	Amount         int64     `gorm:"not null;column:amount"`
	AssetID        uint32    `gorm:"column:asset_id"`
	DecryptedMemo  string    `gorm:"type:text;column:decrypted_memo"`
	Description    string    `gorm:"type:text;column:description"`
	BlockNum       uint64    `gorm:"column:block_num"`
	BlockTime      time.Time `gorm:"column:block_time"`
	TrxInBlock     int       `gorm:"column:trx_in_block"`
	OpInTrx        int       `gorm:"column:op_in_trx"`
	VirtualOp      int       `gorm:"column:virtual_op"`
	TrxID          string    `gorm:"size:40;column:trx_id;index"`
	ProcessStatus  int       `gorm:"not null;column:process_status;index"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (DepositEvent) TableName() string {
	return "deposit_event"
}
