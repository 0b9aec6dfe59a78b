package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadServerFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "IDLECORP_ADDR", "IDLECORP_TICK_EVERY", "IDLECORP_SEED", "DATABASE_URL", "IDLECORP_LOG_LEVEL", "IDLECORP_METRICS"} {
		t.Setenv(key, "")
	}
	cfg, err := LoadServerFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, time.Second, cfg.TickEvery)
	require.Zero(t, cfg.Seed)
	require.Empty(t, cfg.DatabaseURL)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
	require.True(t, cfg.MetricsEnabled)
}

func TestLoadServerFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("IDLECORP_TICK_EVERY", "250ms")
	t.Setenv("IDLECORP_SEED", "42")
	t.Setenv("IDLECORP_LOG_LEVEL", "debug")
	t.Setenv("IDLECORP_METRICS", "false")
	t.Setenv("IDLECORP_AUTOSAVE_EVERY", "not-a-duration")

	cfg, err := LoadServerFromEnv()
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.Addr)
	require.Equal(t, 250*time.Millisecond, cfg.TickEvery)
	require.EqualValues(t, 42, cfg.Seed)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
	require.False(t, cfg.MetricsEnabled)
	require.Equal(t, time.Minute, cfg.AutosaveEvery, "unparseable values fall back")
}

func TestLoadServerFromEnvRejectsZeroTick(t *testing.T) {
	t.Setenv("IDLECORP_TICK_EVERY", "0s")
	_, err := LoadServerFromEnv()
	require.Error(t, err)
}

func TestLoadCLIFromEnvTrimsSlash(t *testing.T) {
	t.Setenv("CORP_API_BASE_URL", "http://corp.example:8080/")
	require.Equal(t, "http://corp.example:8080", LoadCLIFromEnv().APIBaseURL)
}

func TestLoadSimFromEnv(t *testing.T) {
	t.Setenv("IDLECORP_SIM_TICKS", "120")
	t.Setenv("IDLECORP_SIM_REINVEST", "0.25")
	t.Setenv("IDLECORP_SEED", "")
	cfg := LoadSimFromEnv()
	require.Equal(t, 120, cfg.Ticks)
	require.InDelta(t, 0.25, cfg.Reinvest, 1e-12)
	require.EqualValues(t, 1, cfg.Seed)
}
