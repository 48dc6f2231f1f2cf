package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guardiancam.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 50, cfg.Engine.Tracker.HistoryLength)
}

func TestLoad_PartialOverride(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
engine:
  tracker:
    history_length: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 20, cfg.Engine.Tracker.HistoryLength)

	// Untouched fields keep their defaults.
	assert.InDelta(t, 0.75, cfg.Engine.Classifier.AcceptThreshold, 1e-9)
	assert.Equal(t, 5, cfg.Engine.Presence.ConfirmFrames)
}

func TestLoad_InvalidValuesRejected(t *testing.T) {
	path := writeConfig(t, `
engine:
  tracker:
    history_length: 5
`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "history_length")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "engine: [not a mapping")

	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestEffectiveLogLevel(t *testing.T) {
	f := &File{LogLevel: "info"}
	assert.Equal(t, "info", f.EffectiveLogLevel())

	t.Setenv("GUARDIANCAM_LOG_LEVEL", "debug")
	assert.Equal(t, "debug", f.EffectiveLogLevel())
}
