package config

import (
	"fmt"
	"log"
	"os"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg DatabaseConfig) (*gorm.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s "+
		"password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode)

	newLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             0,
			LogLevel:                  gormlogger.Error,
			Colorful:                  true,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the bridge tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.MonitorCursor{},
		&entities.DepositEvent{},
		&entities.WithdrawRequest{},
		&entities.ErrorLogs{},
	)
}

// Ping verifies the underlying connection is still usable; the cycle driver
// calls this before each cycle and reconnects lazily on failure.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
