package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once at process start from the environment and passed into
// the components that need it; nothing reads the environment later.
type Config struct {
	BaseURL      string
	DashboardURL string

	// Login credentials, opaque to this tool.
	GymCode string
	GymName string

	// Discord webhook for operator notifications. Empty disables delivery.
	DiscordWebhook string

	// Preferences ranks session ids, highest priority first.
	Preferences []int

	// Run budget.
	MaxWallTime    time.Duration
	MaxRetryCycles int
	RetryDelay     time.Duration

	// Scanner retry bounds and page-settle delays.
	ScanAttempts int
	ScanDelay    time.Duration
	SettleDelay  time.Duration
	WaitTimeout  time.Duration

	// Browser bootstrap.
	Headless     bool
	ChromeBinary string

	// DebugDir enables screenshot + HTML captures when non-empty.
	DebugDir string

	// MetricsAddr serves Prometheus metrics when non-empty, e.g. ":9187".
	MetricsAddr string
}

func FromEnv() (Config, error) {
	cfg := Config{
		BaseURL:        getenv("GYM_BASE_URL", "https://performancelab.my.id/"),
		DashboardURL:   getenv("GYM_DASHBOARD_URL", "https://performancelab.my.id/dashboard.php"),
		GymCode:        strings.TrimSpace(os.Getenv("GYM_CODE")),
		GymName:        strings.TrimSpace(os.Getenv("GYM_NAME")),
		DiscordWebhook: strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK")),
		ChromeBinary:   strings.TrimSpace(os.Getenv("CHROME_BIN")),
		DebugDir:       strings.TrimSpace(os.Getenv("DEBUG_DIR")),
		MetricsAddr:    strings.TrimSpace(os.Getenv("METRICS_ADDR")),
		Headless:       getenv("HEADLESS", "1") != "0",
	}

	if cfg.GymCode == "" || cfg.GymName == "" {
		return Config{}, fmt.Errorf("GYM_CODE and GYM_NAME are required")
	}

	var err error
	if cfg.Preferences, err = parsePreferences(getenv("PREFERRED_SESSIONS", "6,5,4,3,2,1")); err != nil {
		return Config{}, fmt.Errorf("PREFERRED_SESSIONS: %w", err)
	}

	if cfg.MaxWallTime, err = envSeconds("MAX_WALL_SECONDS", 300); err != nil {
		return Config{}, err
	}
	if cfg.MaxRetryCycles, err = envInt("MAX_RETRY_CYCLES", 40); err != nil {
		return Config{}, err
	}
	if cfg.RetryDelay, err = envSeconds("RETRY_DELAY_SECONDS", 3); err != nil {
		return Config{}, err
	}
	if cfg.ScanAttempts, err = envInt("SCAN_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.ScanDelay, err = envSeconds("SCAN_DELAY_SECONDS", 2); err != nil {
		return Config{}, err
	}
	if cfg.SettleDelay, err = envSeconds("SETTLE_SECONDS", 2); err != nil {
		return Config{}, err
	}
	if cfg.WaitTimeout, err = envSeconds("WAIT_TIMEOUT_SECONDS", 10); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parsePreferences(s string) ([]int, error) {
	var out []int
	seen := map[int]bool{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil || id < 1 {
			return nil, fmt.Errorf("invalid session id %q", p)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty preference list")
	}
	return out, nil
}

func envInt(key string, def int) (int, error) {
	n, err := strconv.Atoi(getenv(key, strconv.Itoa(def)))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func envSeconds(key string, def int) (time.Duration, error) {
	n, err := envInt(key, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
