package config

import (
	"testing"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 90*day, cfg.ExtensionLength)
	assert.Equal(t, 7*day, cfg.ExtensionThreshold)
	assert.Equal(t, 7*day, cfg.ReminderWindow)
	assert.Equal(t, domain.ReapplyExtension, cfg.ReextensionPolicy)
	assert.False(t, cfg.LogUseCases)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("FLO_DB", "/tmp/flo-test.db")
	t.Setenv("FLO_EXTENSION_LENGTH", "28d")
	t.Setenv("FLO_EXTENSION_THRESHOLD", "36h")
	t.Setenv("FLO_REMINDER_WINDOW", "3d")
	t.Setenv("FLO_REEXTENSION_POLICY", "SKIP")
	t.Setenv("FLO_LOG_USE_CASES", "true")
	t.Setenv("FLO_METRICS_FILE", "/tmp/flo.prom")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/flo-test.db", cfg.DBPath)
	assert.Equal(t, 28*day, cfg.ExtensionLength)
	assert.Equal(t, 36*time.Hour, cfg.ExtensionThreshold)
	assert.Equal(t, 3*day, cfg.ReminderWindow)
	assert.Equal(t, domain.SkipAlreadyExtended, cfg.ReextensionPolicy)
	assert.True(t, cfg.LogUseCases)
	assert.Equal(t, "/tmp/flo.prom", cfg.MetricsTextfilePath)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("FLO_EXTENSION_LENGTH", "soon")
	t.Setenv("FLO_REMINDER_WINDOW", "-2d")
	t.Setenv("FLO_REEXTENSION_POLICY", "sometimes")

	cfg := LoadConfig()

	assert.Equal(t, 90*day, cfg.ExtensionLength)
	assert.Equal(t, 7*day, cfg.ReminderWindow)
	assert.Equal(t, domain.ReapplyExtension, cfg.ReextensionPolicy)
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("14d")
	require.NoError(t, err)
	assert.Equal(t, 14*day, d)

	d, err = ParseDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}
