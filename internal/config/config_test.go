package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("GYM_CODE", "GX-123")
	t.Setenv("GYM_NAME", "Budi")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "GX-123", cfg.GymCode)
	require.Equal(t, []int{6, 5, 4, 3, 2, 1}, cfg.Preferences)
	require.Equal(t, 5*time.Minute, cfg.MaxWallTime)
	require.Equal(t, 40, cfg.MaxRetryCycles)
	require.Equal(t, 3*time.Second, cfg.RetryDelay)
	require.True(t, cfg.Headless)
	require.Empty(t, cfg.DiscordWebhook)
}

func TestFromEnvRequiresCredentials(t *testing.T) {
	t.Setenv("GYM_CODE", "")
	t.Setenv("GYM_NAME", "")

	_, err := FromEnv()
	require.ErrorContains(t, err, "GYM_CODE")
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PREFERRED_SESSIONS", "2, 4 ,2")
	t.Setenv("MAX_WALL_SECONDS", "90")
	t.Setenv("HEADLESS", "0")
	t.Setenv("DISCORD_WEBHOOK", "https://discord.example/hook")

	cfg, err := FromEnv()
	require.NoError(t, err)
	// Duplicates collapse, order preserved.
	require.Equal(t, []int{2, 4}, cfg.Preferences)
	require.Equal(t, 90*time.Second, cfg.MaxWallTime)
	require.False(t, cfg.Headless)
	require.Equal(t, "https://discord.example/hook", cfg.DiscordWebhook)
}

func TestFromEnvRejectsBadPreferences(t *testing.T) {
	setRequired(t)
	t.Setenv("PREFERRED_SESSIONS", "6,abc")

	_, err := FromEnv()
	require.ErrorContains(t, err, "PREFERRED_SESSIONS")
}

func TestFromEnvRejectsBadNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("MAX_RETRY_CYCLES", "0")

	_, err := FromEnv()
	require.ErrorContains(t, err, "MAX_RETRY_CYCLES")
}
