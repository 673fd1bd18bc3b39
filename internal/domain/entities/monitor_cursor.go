package entities

import "time"

// MonitorCursor persists the next history sequence number to ingest for a
// monitored account. The cursor only moves forward; on restart ingestion
// resumes from the stored value.
type MonitorCursor struct {
	AccountUID string    `gorm:"primaryKey;size:64;column:account_uid"`
	NextSeq    uint32    `gorm:"not null;default:1;column:next_seq"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (MonitorCursor) TableName() string {
	return "monitor_cursor"
}
