package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reelmap/pkg/config"
	"github.com/agentstation/reelmap/pkg/errors"
)

// TestLoadConfig verifies basic config loading.
func TestLoadConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, config.Default().DataDir, cfg.Pipeline.DataDir)
	assert.Equal(t, config.Default().DownloadTimeout, cfg.Pipeline.DownloadTimeout)
	assert.Equal(t, "auto", cfg.LogFormat)
	assert.Equal(t, "stderr", cfg.LogOutput)
	assert.Empty(t, cfg.ConfigFile)
}

// TestConfig_EnvironmentVariables verifies environment variable loading.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REELMAP_DATA_DIR", "/srv/movies")
	t.Setenv("REELMAP_WORKERS", "4")
	t.Setenv("REELMAP_DOWNLOAD_TIMEOUT", "45s")
	t.Setenv("REELMAP_FORMAT", "yaml")
	t.Setenv("KAGGLE_USERNAME", "alice")
	t.Setenv("KAGGLE_KEY", "secret")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/movies", cfg.Pipeline.DataDir)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.Equal(t, 45*time.Second, cfg.Pipeline.DownloadTimeout)
	assert.Equal(t, "yaml", cfg.Format)
	assert.True(t, cfg.Pipeline.HasKaggleCredentials())
	assert.Equal(t, "alice", cfg.Pipeline.KaggleUsername)
}

func TestConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reelmap.yaml")
	content := "data_dir: /tmp/reelmap-data\nresults_dir: out\ndownload_timeout: 30s\nworkers: 3\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, "/tmp/reelmap-data", cfg.Pipeline.DataDir)
	assert.Equal(t, "out", cfg.Pipeline.ResultsDir)
	assert.Equal(t, 30*time.Second, cfg.Pipeline.DownloadTimeout)
	assert.Equal(t, 3, cfg.Pipeline.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reelmap.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o644))
	t.Setenv("REELMAP_WORKERS", "6")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Pipeline.Workers)
}

func TestConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("REELMAP_RESULTS_DIR=from-dotenv\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("REELMAP_RESULTS_DIR") })

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Pipeline.ResultsDir)
}

func TestConfig_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		var cfgErr *errors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "file", cfgErr.Component)
	})

	t.Run("invalid worker count", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("REELMAP_WORKERS", "0")
		_, err := LoadConfig("")
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
	})
}

// TestUpdateFromFlags verifies that flags override loaded values.
func TestUpdateFromFlags(t *testing.T) {
	cfg := &Config{Format: "yaml", LogLevel: "warn"}

	cfg.UpdateFromFlags(true, false, true, "", "")
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.NoColor)
	assert.Equal(t, "yaml", cfg.Format, "empty flag keeps the loaded format")
	assert.Equal(t, "warn", cfg.LogLevel)

	cfg.UpdateFromFlags(false, true, false, "json", "trace")
	assert.True(t, cfg.Quiet)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "trace", cfg.LogLevel)
}
