package handlers

import (
	"net/http"

	"github.com/labstack/echo"
	"github.com/walletops/yoyow_bridge/internal/application/services"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	domainRepos "github.com/walletops/yoyow_bridge/internal/domain/repositories"
)

// HeartBeat answers liveness probes
func HeartBeat(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	SchedulerRunning bool                  `json:"scheduler_running"`
	QueuedWithdraws  int64                 `json:"queued_withdraws"`
	UnknownWithdraws int64                 `json:"unknown_withdraws"`
	LastCycle        *entities.CycleResult `json:"last_cycle"`
}

// Status reports the scheduler state, queue depths and the last cycle result
func Status(scheduler *services.ReconcileScheduler, service *services.ReconcileService, withdrawRepo domainRepos.WithdrawRequestRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		queued, err := withdrawRepo.CountByStatus(ctx, entities.WithdrawStatusQueued)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		unknown, err := withdrawRepo.CountByStatus(ctx, entities.WithdrawStatusUnknown)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, statusResponse{
			SchedulerRunning: scheduler.IsRunning(),
			QueuedWithdraws:  queued,
			UnknownWithdraws: unknown,
			LastCycle:        service.LastResult(),
		})
	}
}
