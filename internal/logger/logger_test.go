package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext_AddsRequestAndUserIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelDebug, OutputPath: path, Format: "json"}))

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), "req-1"), 42)
	WithContext(ctx).Info("reading logged", "metric_type", "glucose")
	Debug("plain debug")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "reading logged", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, float64(42), entry["user_id"])
	assert.Equal(t, "glucose", entry["metric_type"])

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}

func TestInitWithConfig_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelWarn, OutputPath: path, Format: "text"}))

	Info("hidden")
	Warn("shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestClose_ReleasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitWithConfig(Config{Level: LevelInfo, OutputPath: path, Format: "json"}))
	require.NoError(t, Close())
	require.NoError(t, Close())

	require.NoError(t, InitWithConfig(Config{Level: LevelInfo, OutputPath: "stdout"}))
	assert.NotNil(t, GetLogger())
}
