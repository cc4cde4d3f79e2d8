package toml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := viper.New()
	require.NoError(t, LoadConfig(cfg))

	assert.Equal(t, filepath.Join(home, ".ssim", "presets.toml"), cfg.GetString(presetsPathKey))
	assert.Equal(t, "info", cfg.GetString(LogLevelKey))
	assert.Equal(t, 5*time.Second, cfg.GetDuration(AnalysisTimeoutKey))
	assert.Empty(t, cfg.GetString(AnalysisFileKey))
}

func TestLoadConfigReadsFileAndEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SSIM_LOG_LEVEL", "debug")

	dir := filepath.Join(home, ".ssim")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	content := `[log]
level = "warn"

[analysis]
file = "/tmp/analysis.toml"
timeout = "250ms"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o600))

	cfg := viper.New()
	require.NoError(t, LoadConfig(cfg))

	assert.Equal(t, "debug", cfg.GetString(LogLevelKey))
	assert.Equal(t, "/tmp/analysis.toml", cfg.GetString(AnalysisFileKey))
	assert.Equal(t, 250*time.Millisecond, cfg.GetDuration(AnalysisTimeoutKey))
}

func TestLoadConfigMalformedFileReturnsError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".ssim")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[log\n"), 0o600))

	err := LoadConfig(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
