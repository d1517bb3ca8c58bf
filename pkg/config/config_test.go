package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalYAML = `
environment: test
server:
  port: 8080
validation:
  enabled: true
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	v := cfg.Validation
	assert.Equal(t, 5*time.Second, v.Timeout)
	assert.Equal(t, 2, v.MinQuorum)
	assert.Equal(t, 1, v.SourceFloor)
	assert.Equal(t, 0.1, v.SmoothingAlpha)
	assert.Equal(t, 7*24*time.Hour, v.DecayWindow)
	assert.Equal(t, 0.5, v.NeutralWeight)
	assert.Equal(t, 0.05, v.MinWeight)
	assert.Equal(t, 0.95, v.MaxWeight)
	assert.Equal(t, 0.015, v.PriceWarnPct)
	assert.Equal(t, 0.05, v.PriceCriticalPct)
	assert.Equal(t, 60, v.LowConfidenceThreshold)
	assert.Equal(t, 50, v.SingleSourceCeiling)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
validation:
  enabled: true
  price_warn_pct: 0.10
  price_critical_pct: 0.05
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price_warn_pct")
}

func TestLoadRejectsBadWeights(t *testing.T) {
	_, err := Load(writeConfig(t, `
environment: test
validation:
  min_weight: 0.9
  max_weight: 0.2
`))
	require.Error(t, err)
}

func TestLoadRequiresEnvironment(t *testing.T) {
	_, err := Load(writeConfig(t, `
server:
  port: 8080
`))
	require.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6390")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("VALIDATION_ENABLED", "false")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, 6390, cfg.Redis.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Validation.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
