package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/container"
	httpserver "github.com/walletops/yoyow_bridge/internal/presentation/http"
	"github.com/walletops/yoyow_bridge/pkg/logger"
	"go.uber.org/zap"
)

func init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment")
	}
}

func main() {
	log := logger.NewZap(os.Getenv("APP_ENV"))
	defer log.Sync()

	ctx := context.Background()
	c, err := container.NewContainer(ctx, log)
	if err != nil {
		log.Fatal("Failed to build container", zap.Error(err))
	}

	if err := config.Migrate(c.DB); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// A crash between the submitting mark and the recorded outcome leaves a
	// row in submitting(21); surface it before processing resumes.
	if _, err := c.ReconcileService.ScanStuckSubmitting(ctx); err != nil {
		log.Fatal("Failed startup submitting scan", zap.Error(err))
	}

	if err := c.Scheduler.Start(); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	server := httpserver.NewServer(c.Config, c.Scheduler, c.ReconcileService, c.WithdrawRequestRepo)
	go func() {
		if err := server.Start(); err != nil {
			log.Error("Status server stopped", zap.Error(err))
		}
	}()

	c.Notifier.Alert("bridge: started")
	log.Info("Bridge started",
		zap.String("account", c.Config.Bridge.Account),
		zap.Duration("interval", c.Config.Bridge.CycleInterval),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down, draining current cycle")
	c.Scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("Status server shutdown failed", zap.Error(err))
	}

	c.Notifier.Alert("bridge: stopped")
	log.Info("Bridge stopped")
}
