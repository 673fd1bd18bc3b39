package services

import (
	"context"
	"fmt"
	"time"

	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	"github.com/walletops/yoyow_bridge/internal/metrics"
	"github.com/walletops/yoyow_bridge/internal/node"
	"go.uber.org/zap"
)

// HealthGate decides whether the node is healthy enough to trust this cycle.
// A rejection aborts the whole cycle: neither ingestion nor disbursement runs
// on partially-healthy data.
type HealthGate struct {
	node   node.Client
	cfg    *config.Config
	logger *zap.Logger
	now    func() time.Time
}

// NewHealthGate creates a new health gate
func NewHealthGate(nodeClient node.Client, cfg *config.Config, logger *zap.Logger) *HealthGate {
	return &HealthGate{
		node:   nodeClient,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate checks lock state, head-block age and participation in order,
// short-circuiting on the first failure. It returns the snapshot on
// admission, a NodeUnhealthyError on rejection, and err only for transport
// or decode failures.
func (g *HealthGate) Evaluate(ctx context.Context) (*entities.HealthSnapshot, *entities.NodeUnhealthyError, error) {
	locked, err := g.node.IsLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	if locked {
		return nil, g.reject(entities.RejectNodeLocked, "wallet is locked"), nil
	}

	info, err := g.node.Info(ctx)
	if err != nil {
		return nil, nil, err
	}

	headAge := g.now().Sub(info.HeadBlockTime.Time).Seconds()
	snapshot := &entities.HealthSnapshot{
		Locked:                   false,
		HeadBlockNum:             info.HeadBlockNum,
		HeadBlockTime:            info.HeadBlockTime.Time,
		HeadAgeSeconds:           headAge,
		LastIrreversibleBlockNum: info.LastIrreversibleBlockNum,
		ParticipationRate:        float64(info.Participation),
	}

	if headAge >= g.cfg.Bridge.HeadAgeThreshold.Seconds() {
		return nil, g.reject(entities.RejectStaleHead,
			fmt.Sprintf("head block is %.1fs old (threshold %s)", headAge, g.cfg.Bridge.HeadAgeThreshold)), nil
	}

	if snapshot.ParticipationRate <= g.cfg.Bridge.ParticipationThreshold {
		return nil, g.reject(entities.RejectLowParticipation,
			fmt.Sprintf("participation %.3f%% (threshold %.3f%%)", snapshot.ParticipationRate, g.cfg.Bridge.ParticipationThreshold)), nil
	}

	return snapshot, nil, nil
}

func (g *HealthGate) reject(reason entities.RejectReason, detail string) *entities.NodeUnhealthyError {
	metrics.HealthRejections.WithLabelValues(string(reason)).Inc()
	g.logger.Warn("Health gate rejected cycle",
		zap.String("reason", string(reason)),
		zap.String("detail", detail),
	)
	return &entities.NodeUnhealthyError{Reason: reason, Detail: detail}
}
