package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	App    App    `mapstructure:"app"`
	Logger Logger `mapstructure:"logger"`
	API    API    `mapstructure:"api"`
	Feed   struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"feed"`
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  name: runchart\napi:\n  port: 9090\nfeed:\n  url: http://example.test/run_history.csv\n"), 0o644))

	var cfg testConfig
	require.NoError(t, Load(path, &cfg, nil))

	assert.Equal(t, "runchart", cfg.App.Name)
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "http://example.test/run_history.csv", cfg.Feed.URL)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("FEED_URL", "http://env.test/feed.csv")

	var cfg testConfig
	require.NoError(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &cfg, map[string]interface{}{
		"feed.url": "http://default.test/feed.csv",
	}))

	assert.Equal(t, "http://env.test/feed.csv", cfg.Feed.URL)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "json", cfg.Logger.Encoding)
}
