package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/skillcheck/internal/config"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, err := New(config.Log{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NoError(t, err)

	log.Info("quiz started", zap.String("lang", "hi"), zap.Int("questions", 10))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "quiz started", entry["msg"])
	assert.Equal(t, "hi", entry["lang"])
	assert.EqualValues(t, 10, entry["questions"])
}

func TestNew_RespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(config.Log{Level: "warn", File: path, MaxSizeMB: 1})
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.Log{Level: "loud"})
	require.Error(t, err)
}

func TestNew_NoSinksIsNop(t *testing.T) {
	log, err := New(config.Log{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, log)
	log.Info("nowhere")
}

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, zapcore.DebugLevel)
	log.Debug("hello", zap.String("k", "v"))
	assert.Contains(t, buf.String(), `"k":"v"`)
}
