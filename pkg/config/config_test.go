package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "server:\n  listen: \":9090\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Listen)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "file:feedalor.db?cache=shared&mode=rwc&_txlock=immediate", cfg.Database.DSN)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Scheduler.WiggleWindow)
	assert.Equal(t, 2*time.Minute, cfg.Scheduler.CaptureTimeout)
	assert.Equal(t, "./stills", cfg.Storage.ImageDir)
	assert.Equal(t, "local", cfg.Queue.Type)
	assert.Equal(t, "feed-tasks", cfg.Queue.Name)
	assert.Equal(t, 5, cfg.Queue.Workers)
	assert.Equal(t, 10*time.Second, cfg.Adapters.HTTPTimeout)
	assert.Equal(t, "Feedalor/1.0", cfg.Adapters.UserAgent)
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":8081"
  timeout: 10s
database:
  dsn: ":memory:"
scheduler:
  poll_interval: 2s
  wiggle_window: 15s
  capture_timeout: 45s
storage:
  image_dir: /var/lib/feedalor/stills
queue:
  type: amqp
  url: amqp://user:pass@mq:5672/
  name: captures
  workers: 3
  prefetch: 2
adapters:
  google_maps_api_key: test-key
  browser_timeout: 20s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.Listen)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, 2*time.Second, cfg.Scheduler.PollInterval)
	assert.Equal(t, 15*time.Second, cfg.Scheduler.WiggleWindow)
	assert.Equal(t, 45*time.Second, cfg.Scheduler.CaptureTimeout)
	assert.Equal(t, "/var/lib/feedalor/stills", cfg.Storage.ImageDir)
	assert.Equal(t, "amqp", cfg.Queue.Type)
	assert.Equal(t, "amqp://user:pass@mq:5672/", cfg.Queue.URL)
	assert.Equal(t, "captures", cfg.Queue.Name)
	assert.Equal(t, 3, cfg.Queue.Workers)
	assert.Equal(t, 2, cfg.Queue.Prefetch)
	assert.Equal(t, "test-key", cfg.Adapters.GoogleMapsAPIKey)
	assert.Equal(t, 20*time.Second, cfg.Adapters.BrowserTimeout)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_MAPS_KEY", "secret-key")
	path := writeConfig(t, "adapters:\n  google_maps_api_key: ${TEST_MAPS_KEY}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.Adapters.GoogleMapsAPIKey)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "server: [not a map\n"},
		{"bad queue type", "queue:\n  type: redis\n"},
		{"short poll interval", "scheduler:\n  poll_interval: 100ms\n"},
		{"short server timeout", "server:\n  timeout: 1ms\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestConfig_Getters(t *testing.T) {
	path := writeConfig(t, "server:\n  listen: \":9999\"\n  timeout: 5s\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	listen, timeout := cfg.GetServerConfig()
	assert.Equal(t, ":9999", listen)
	assert.Equal(t, 5*time.Second, timeout)
}
