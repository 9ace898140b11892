package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/care-planner/internal/logger"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"AI_PROVIDER", "AI_MAX_ATTEMPTS", "AI_BACKOFF_BASE", "REDIS_HOST", "TIMEZONE", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, 3, cfg.AI.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.AI.BackoffBase)
	assert.Equal(t, 20*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "", cfg.RedisAddr())
	assert.Equal(t, logger.LevelInfo, cfg.Logger.Level)
	assert.Equal(t, "0 9 * * 1", cfg.Scheduler.WeeklyDigestCron)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")
	t.Setenv("AI_MAX_ATTEMPTS", "5")
	t.Setenv("AI_BACKOFF_BASE", "500ms")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TIMEZONE", "Asia/Kolkata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.Equal(t, 5, cfg.AI.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.AI.BackoffBase)
	assert.Equal(t, "redis:6380", cfg.RedisAddr())
	assert.Equal(t, logger.LevelDebug, cfg.Logger.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestLoad_MalformedNumber(t *testing.T) {
	t.Setenv("AI_MAX_ATTEMPTS", "three")

	_, err := Load()
	assert.ErrorContains(t, err, "AI_MAX_ATTEMPTS")
}

func TestValidate(t *testing.T) {
	valid := Config{
		TelegramToken: "token",
		GeminiAPIKey:  "key",
		AI:            AIConfig{Provider: ProviderGemini, MaxAttempts: 3, Timeout: time.Second, RequestsPerMinute: 10},
		DB:            DBConfig{Host: "localhost", DBName: "care"},
		Timezone:      "UTC",
	}
	require.NoError(t, valid.Validate())

	missingKey := valid
	missingKey.GeminiAPIKey = ""
	assert.ErrorContains(t, missingKey.Validate(), "GEMINI_API_KEY")

	noAI := missingKey
	noAI.AI.Provider = ProviderNone
	assert.NoError(t, noAI.Validate())

	broken := valid
	broken.TelegramToken = ""
	broken.AI.Provider = "claude"
	broken.Timezone = "Mars/Olympus"
	err := broken.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")
	assert.ErrorContains(t, err, "AI_PROVIDER")
	assert.ErrorContains(t, err, "TIMEZONE")
}
