package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type ServerConfig struct {
	Addr           string
	TickEvery      time.Duration
	Seed           int64
	DatabaseURL    string
	SaveDir        string
	SaveSlot       string
	AutosaveEvery  time.Duration
	LogLevel       slog.Level
	CatalogPath    string
	MetricsEnabled bool
}

type CLIConfig struct {
	APIBaseURL string
}

type SimConfig struct {
	Ticks       int
	Seed        int64
	CatalogPath string
	Output      string
	LogLevel    slog.Level
	// Reinvest is the share of the balance the scripted buyer may spend per
	// tick; zero disables it.
	Reinvest float64
}

func LoadServerFromEnv() (ServerConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("IDLECORP_ADDR", ":8080")
	}

	cfg := ServerConfig{
		Addr:          addr,
		TickEvery:     envDurationDefault("IDLECORP_TICK_EVERY", time.Second),
		Seed:          envIntDefault("IDLECORP_SEED", 0),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SaveDir:       envDefault("IDLECORP_SAVE_DIR", "saves"),
		SaveSlot:      envDefault("IDLECORP_SAVE_SLOT", "default"),
		AutosaveEvery: envDurationDefault("IDLECORP_AUTOSAVE_EVERY", time.Minute),
		LogLevel:      envLevelDefault("IDLECORP_LOG_LEVEL", slog.LevelInfo),
		CatalogPath:   strings.TrimSpace(os.Getenv("IDLECORP_CATALOG")),
	}
	cfg.MetricsEnabled = envBoolDefault("IDLECORP_METRICS", true)
	if cfg.TickEvery <= 0 {
		return cfg, fmt.Errorf("IDLECORP_TICK_EVERY must be positive")
	}
	if cfg.AutosaveEvery < 0 {
		return cfg, fmt.Errorf("IDLECORP_AUTOSAVE_EVERY must not be negative")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("CORP_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

// LoadSimFromEnv returns the simulator defaults; flags override them.
func LoadSimFromEnv() SimConfig {
	return SimConfig{
		Ticks:       int(envIntDefault("IDLECORP_SIM_TICKS", 3600)),
		Seed:        envIntDefault("IDLECORP_SEED", 1),
		CatalogPath: strings.TrimSpace(os.Getenv("IDLECORP_CATALOG")),
		Output:      strings.TrimSpace(os.Getenv("IDLECORP_SIM_OUTPUT")),
		LogLevel:    envLevelDefault("IDLECORP_LOG_LEVEL", slog.LevelInfo),
		Reinvest:    envFloatDefault("IDLECORP_SIM_REINVEST", 0.5),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envIntDefault(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envLevelDefault(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return lvl
}
