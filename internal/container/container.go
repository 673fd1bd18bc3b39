package container

import (
	"context"

	"github.com/walletops/yoyow_bridge/internal/application/services"
	"github.com/walletops/yoyow_bridge/internal/config"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
	"github.com/walletops/yoyow_bridge/internal/infrastructure/database/repositories"
	"github.com/walletops/yoyow_bridge/internal/node"
	"github.com/walletops/yoyow_bridge/internal/notification"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	DB         *gorm.DB
	NodeClient node.Client
	Notifier   *notification.Notifier

	// Repositories
	MonitorCursorRepo   domainRepos.MonitorCursorRepository
	DepositEventRepo    domainRepos.DepositEventRepository
	WithdrawRequestRepo domainRepos.WithdrawRequestRepository
	ErrorLogsRepo       domainRepos.ErrorLogsRepository

	// Services
	HealthGate       *services.HealthGate
	Ingestion        *services.IngestionService
	Disbursement     *services.DisbursementService
	ReconcileService *services.ReconcileService
	Scheduler        *services.ReconcileScheduler
}

// NewContainer creates a new container with all dependencies
func NewContainer(ctx context.Context, logger *zap.Logger) (*Container, error) {
	cfg := config.LoadConfig()

	db, err := config.NewDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	nodeClient, err := node.Dial(ctx, cfg.Node.RpcURL, cfg.Node.Timeout)
	if err != nil {
		return nil, err
	}

	monitorCursorRepo := repositories.NewMonitorCursorRepository(db)
	depositEventRepo := repositories.NewDepositEventRepository(db)
	withdrawRequestRepo := repositories.NewWithdrawRequestRepository(db)
	errorLogsRepo := repositories.NewErrorLogsRepository(db)

	notifier := notification.NewNotifier(cfg.Notification.Telegram, logger)

	gate := services.NewHealthGate(nodeClient, cfg, logger)
	ingestion := services.NewIngestionService(nodeClient, monitorCursorRepo, depositEventRepo, withdrawRequestRepo, cfg, logger)
	disbursement := services.NewDisbursementService(nodeClient, withdrawRequestRepo, notifier, cfg, logger)
	reconcile := services.NewReconcileService(db, gate, ingestion, disbursement, withdrawRequestRepo, errorLogsRepo, notifier, cfg, logger)
	scheduler := services.NewReconcileScheduler(reconcile, cfg.Bridge.CycleInterval, logger)

	return &Container{
		Config:     cfg,
		DB:         db,
		NodeClient: nodeClient,
		Notifier:   notifier,

		MonitorCursorRepo:   monitorCursorRepo,
		DepositEventRepo:    depositEventRepo,
		WithdrawRequestRepo: withdrawRequestRepo,
		ErrorLogsRepo:       errorLogsRepo,

		HealthGate:       gate,
		Ingestion:        ingestion,
		Disbursement:     disbursement,
		ReconcileService: reconcile,
		Scheduler:        scheduler,
	}, nil
}
