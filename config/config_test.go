package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadConfig(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	// Test case 1: A missing file is created with the defaults
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Test case 2: The created file loads back to the same values
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveConfig(t *testing.T) {
	// Setup
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.Port = "9000"
	cfg.Game.Seed = 42
	cfg.Game.AutoplayInterval = 750 * time.Millisecond
	cfg.Game.CatalogPath = "catalog.yaml"
	cfg.Log.Format = "console"

	// Test case 1: YAML
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(cfg, path))
	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	// Test case 2: JSON
	path = filepath.Join(dir, "config.json")
	require.NoError(t, SaveConfig(cfg, path))
	loaded, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigPartialFile(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "game:\n  max_steps: 50\n  autoplay_interval: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// Test case 1: Unset keys keep their defaults
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Game.MaxSteps)
	assert.Equal(t, 5*time.Second, cfg.Game.AutoplayInterval)
	assert.Equal(t, 100, cfg.Game.DefaultHP)
	assert.Equal(t, "8080", cfg.Server.Port)

	// Test case 2: Broken files are reported
	require.NoError(t, os.WriteFile(path, []byte("game: [\n"), 0644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))
	t.Setenv("ARENA_SERVER_PORT", "9090")
	t.Setenv("ARENA_GAME_SEED", "7")

	// Test case 1: Environment wins over the file
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(7), cfg.Game.Seed)
	assert.Equal(t, 500, cfg.Game.MaxSteps)
}

func TestWatch(t *testing.T) {
	// Test case 1: Watching a missing file fails
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), nil, func(Config) {})
	assert.Error(t, err)
}

func TestWatchReload(t *testing.T) {
	// Setup
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SaveConfig(DefaultConfig(), path))

	core, logs := observer.New(zap.ErrorLevel)
	reloaded := make(chan Config, 8)
	require.NoError(t, Watch(path, zap.New(core), func(c Config) {
		select {
		case reloaded <- c:
		default:
		}
	}))

	// Test case 1: A valid edit reaches the callback
	cfg := DefaultConfig()
	cfg.Game.AutoplayInterval = 250 * time.Millisecond
	require.NoError(t, SaveConfig(cfg, path))
	deadline := time.After(5 * time.Second)
	for delivered := false; !delivered; {
		select {
		case c := <-reloaded:
			delivered = c.Game.AutoplayInterval == 250*time.Millisecond
		case <-deadline:
			t.Fatal("config change not delivered")
		}
	}

	// Test case 2: An edit that does not decode is logged
	require.NoError(t, os.WriteFile(path, []byte("game:\n  max_steps: lots\n"), 0644))
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("Failed to reload config").Len() > 0
	}, 5*time.Second, 20*time.Millisecond)
}
