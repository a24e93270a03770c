package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REXA_LOG_LEVEL", "DEBUG")
	t.Setenv("REXA_LOG_FORMAT", "json")
	t.Setenv("REXA_LOG_FILE", "/tmp/rexa.log")

	cfg := LoadConfig()

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/tmp/rexa.log", cfg.FilePath)
	assert.Equal(t, 10, cfg.MaxSize)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("bogus"))
}

func TestNewWithWriter_DefaultSuppressesInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(DefaultConfig(), &buf)

	log.Info("quiet")
	log.Warn("loud")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewWithWriter_FileSinkGetsInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rexa.log")
	cfg := DefaultConfig()
	cfg.FilePath = path

	var buf bytes.Buffer
	log := NewWithWriter(cfg, &buf)
	log.Info("routed", zapcore.Field{Key: "topic", Type: zapcore.StringType, String: "apply"})
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"routed"`)
	assert.Contains(t, string(data), `"topic":"apply"`)
	assert.Empty(t, buf.String())
}
