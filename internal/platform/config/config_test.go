package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "DATABASE_URL", "PAYRUN_WORKERS", "OVERTIME_MULTIPLIER", "LOG_FORMAT", "DB_CONNECT_TIMEOUT"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8, cfg.PayRunWorkers)
	assert.True(t, cfg.OvertimeMultiplier.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, 10*time.Second, cfg.DBConnectTimeout)
	require.NoError(t, cfg.Validate())
	assert.Error(t, cfg.RequireDatabase())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PAYRUN_WORKERS", "3")
	t.Setenv("OVERTIME_MULTIPLIER", "2")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("DATABASE_URL", "postgres://localhost/payroll")
	t.Setenv("DB_CONNECT_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 3, cfg.PayRunWorkers)
	assert.True(t, cfg.OvertimeMultiplier.Equal(decimal.NewFromInt(2)))
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, 10*time.Second, cfg.DBConnectTimeout)
	assert.NoError(t, cfg.RequireDatabase())
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_ENV", "")
	base := Load()

	cfg := base
	cfg.PayRunWorkers = 0
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.OvertimeMultiplier = decimal.RequireFromString("0.5")
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.Environment = "production"
	cfg.DataEncryptionKey = ""
	assert.Error(t, cfg.Validate())

	cfg = base
	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())
}
