package entities

import "gorm.io/gorm"

// ErrorLogs is the audit sink for cycle failures.
type ErrorLogs struct {
	gorm.Model
	Code string `gorm:"column:code"`
	Msg  string `gorm:"column:msg"`
}

func (ErrorLogs) TableName() string {
	return "error_logs"
}
