package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "dynamic", cfg.Grammar)
	assert.Equal(t, "multiline", cfg.Mode)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Watch.IntervalSec)
	assert.Equal(t, 5000, cfg.Watch.WindowLines)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STACKSIFT_GRAMMAR", "python")
	t.Setenv("STACKSIFT_MODE", "split")
	t.Setenv("STACKSIFT_MAX_LINES", "500")
	t.Setenv("STACKSIFT_OUTPUT_FORMAT", "json")
	t.Setenv("STACKSIFT_WEBHOOK_URL", "https://hooks.example.com/tickets")

	cfg := Load()

	assert.Equal(t, "python", cfg.Grammar)
	assert.Equal(t, "split", cfg.Mode)
	assert.Equal(t, 500, cfg.MaxLines)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "https://hooks.example.com/tickets", cfg.Output.WebhookURL)
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("STACKSIFT_WATCH_INTERVAL", "soon")

	cfg := Load()
	assert.Equal(t, 30, cfg.Watch.IntervalSec)
}

func TestMergeFileOverlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stacksift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
grammar: csharp
substitutions:
  - pattern: "order 12345"
    replacement: "order #ID#"
filters:
  - 'FrameCount > 0'
output:
  format: json
  pretty: true
watch:
  window_lines: 200
`), 0o644))

	cfg := Load()
	require.NoError(t, cfg.MergeFile(path))

	assert.Equal(t, "csharp", cfg.Grammar)
	// Fields absent from the file keep their earlier values.
	assert.Equal(t, "multiline", cfg.Mode)
	assert.Equal(t, 30, cfg.Watch.IntervalSec)

	require.Len(t, cfg.Substitutions, 1)
	assert.Equal(t, "order #ID#", cfg.Substitutions[0].Replacement)
	assert.Equal(t, []string{"FrameCount > 0"}, cfg.Filters)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.Pretty)
	assert.Equal(t, 200, cfg.Watch.WindowLines)
}

func TestMergeFileErrors(t *testing.T) {
	cfg := Load()
	require.Error(t, cfg.MergeFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grammar: [unbalanced"), 0o644))
	require.Error(t, cfg.MergeFile(path))
}
