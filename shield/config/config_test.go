package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SHIELD_VALKEY_ADDR", "SHIELD_RABBITMQ_URL", "SHIELD_DATABASE_DSN", "SHIELD_SCORE_QUEUE",
		"SHIELD_EVENT_QUEUE", "SHIELD_METRICS_ADDR", "SHIELD_MAX_RETRIES", "SHIELD_RETRY_DELAY",
		"SHIELD_HISTORY_LIMIT", "SHIELD_CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "shield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
valkey_addr: cache:6379
score_queue: score-jobs
max_retries: 5
retry_delay: 2s
log_format: json
`), 0600))

	t.Setenv("SHIELD_VALKEY_ADDR", "override:6379")
	t.Setenv("SHIELD_HISTORY_LIMIT", "25")
	t.Setenv("SHIELD_MAX_RETRIES", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override:6379", cfg.ValkeyAddr)
	assert.Equal(t, "score-jobs", cfg.ScoreQueue)
	assert.Equal(t, 5, cfg.MaxRetries, "unparseable env keeps the file value")
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "security-score-events", cfg.EventQueue)
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: [1, 2"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.MaxRetries = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogLevel = "trace"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.ScoreQueue = ""
	assert.Error(t, cfg.Validate())

	assert.NoError(t, Default().Validate())
}

func TestLoadAcceptsUppercaseLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "INFO")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "INFO", cfg.LogLevel)

	assert.True(t, IsValidLogLevel(" Warn "))
	assert.False(t, IsValidLogLevel("TRACE"))
}
