package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
)

const day = 24 * time.Hour

// Config holds runtime settings for the lifecycle engine and its batch jobs.
type Config struct {
	DBPath              string
	ExtensionLength     time.Duration
	ExtensionThreshold  time.Duration
	ReminderWindow      time.Duration
	ReextensionPolicy   domain.ReextensionPolicy
	LogUseCases         bool
	MetricsTextfilePath string
}

// DefaultConfig returns a Config with the defaults used when no
// environment overrides are present.
func DefaultConfig() Config {
	dbPath := "flo.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".flo", "flo.db")
	}
	return Config{
		DBPath:             dbPath,
		ExtensionLength:    90 * day,
		ExtensionThreshold: 7 * day,
		ReminderWindow:     7 * day,
		ReextensionPolicy:  domain.ReapplyExtension,
	}
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset or unparseable values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("FLO_DB"); v != "" {
		cfg.DBPath = v
	}
	applyDurationEnv(&cfg.ExtensionLength, "FLO_EXTENSION_LENGTH")
	applyDurationEnv(&cfg.ExtensionThreshold, "FLO_EXTENSION_THRESHOLD")
	applyDurationEnv(&cfg.ReminderWindow, "FLO_REMINDER_WINDOW")
	if v := os.Getenv("FLO_REEXTENSION_POLICY"); v != "" {
		if p := domain.ReextensionPolicy(strings.ToLower(v)); domain.ValidReextensionPolicies[p] {
			cfg.ReextensionPolicy = p
		}
	}
	if v := os.Getenv("FLO_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("FLO_METRICS_FILE"); v != "" {
		cfg.MetricsTextfilePath = v
	}

	return cfg
}

// ParseDuration accepts Go duration strings and a whole-day form such as "14d".
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("invalid day count %q: %w", s, err)
		}
		return time.Duration(days) * day, nil
	}
	return time.ParseDuration(s)
}

func applyDurationEnv(target *time.Duration, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	d, err := ParseDuration(v)
	if err != nil || d <= 0 {
		return
	}
	*target = d
}
