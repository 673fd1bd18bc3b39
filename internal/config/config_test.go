package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsFillsTuningKnobs(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, 55*time.Second, cfg.Node.Timeout)
	assert.Equal(t, 10, cfg.Bridge.PageSize)
	assert.Equal(t, 10*time.Second, cfg.Bridge.CycleInterval)
	assert.Equal(t, 15*time.Second, cfg.Bridge.HeadAgeThreshold)
	assert.InDelta(t, 79.999, cfg.Bridge.ParticipationThreshold, 1e-9)
	assert.Equal(t, int64(20_00000), cfg.Bridge.ReserveFloor)
	assert.Equal(t, int64(100_00000), cfg.Bridge.ReserveTopUp)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Node.Timeout = 5 * time.Second
	cfg.Bridge.PageSize = 100
	cfg.Bridge.ParticipationThreshold = 50
	applyDefaults(cfg)

	assert.Equal(t, 5*time.Second, cfg.Node.Timeout)
	assert.Equal(t, 100, cfg.Bridge.PageSize)
	assert.InDelta(t, 50.0, cfg.Bridge.ParticipationThreshold, 1e-9)
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("BRIDGE_ASSET_ID", "3")
	assert.Equal(t, 3, getEnvAsInt("BRIDGE_ASSET_ID", 0))

	t.Setenv("BRIDGE_ASSET_ID", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("BRIDGE_ASSET_ID", 7))
}
