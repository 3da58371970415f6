package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VRaz104/Business-Reporting-Tool/internal/config"
)

func lastLogEntry(t *testing.T, content []byte) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestNewLogger_BothOutputs(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	var console bytes.Buffer

	logger, err := NewLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "both",
		FilePath: logFile,
	}, &console)
	require.NoError(t, err)

	logger.Info("test message", "key", "value")
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := lastLogEntry(t, content)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Contains(t, entry, "source")

	assert.Equal(t, string(content), console.String())
}

func TestNewLogger_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer

	logger, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "console"}, &console)
	require.NoError(t, err)
	defer logger.Close()

	logger.Debug("debug message")
	assert.Equal(t, "debug message", lastLogEntry(t, console.Bytes())["msg"])
}

func TestNewLogger_UnwritableFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewLogger(config.LoggingConfig{
		Output:   "file",
		FilePath: filepath.Join(blocker, "app.log"),
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestRunIDInjection(t *testing.T) {
	var console bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info", Output: "console"}, &console)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-123")
	WithComponent(logger.Logger, "loader").InfoContext(ctx, "loaded")

	entry := lastLogEntry(t, console.Bytes())
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, "loader", entry["component"])
	assert.NotContains(t, entry, "trace_id")
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		configured string
		logged     func(*Logger)
		wantOutput bool
	}{
		{configured: "info", logged: func(l *Logger) { l.Debug("hidden") }, wantOutput: false},
		{configured: "info", logged: func(l *Logger) { l.Info("shown") }, wantOutput: true},
		{configured: "warning", logged: func(l *Logger) { l.Info("hidden") }, wantOutput: false},
		{configured: "warn", logged: func(l *Logger) { l.Warn("shown") }, wantOutput: true},
		{configured: "error", logged: func(l *Logger) { l.Warn("hidden") }, wantOutput: false},
		{configured: "bogus", logged: func(l *Logger) { l.Info("shown") }, wantOutput: true},
	}

	for _, tt := range tests {
		t.Run(tt.configured, func(t *testing.T) {
			var console bytes.Buffer
			logger, err := NewLogger(config.LoggingConfig{Level: tt.configured, Output: "console"}, &console)
			require.NoError(t, err)

			tt.logged(logger)
			assert.Equal(t, tt.wantOutput, console.Len() > 0)
		})
	}
}

func TestContextHelpers(t *testing.T) {
	assert.Empty(t, GetRunID(context.Background()))

	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	assert.Len(t, runID, 36)
	assert.Equal(t, runID, GetRunID(EnsureRunID(ctx)), "existing run ID must be kept")

	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}

func TestWithError(t *testing.T) {
	var console bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Output: "console"}, &console)
	require.NoError(t, err)

	assert.Same(t, logger.Logger, WithError(logger.Logger, nil))

	WithError(logger.Logger, assert.AnError).Info("failed")
	assert.Equal(t, assert.AnError.Error(), lastLogEntry(t, console.Bytes())["error"])
}
