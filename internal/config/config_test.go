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
	path := filepath.Join(t.TempDir(), "orchestrator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "omnix-orchestrator", cfg.Service.Name)
	assert.Equal(t, 2112, cfg.Service.MetricsPort)
	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "omnix-tasks", cfg.Temporal.TaskQueue)
	assert.Equal(t, 3, cfg.Research.MaxResults)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.Host)
	assert.Equal(t, 587, cfg.Email.Port)
	assert.Equal(t, time.Hour, cfg.Redis.PageTTL)
	assert.Equal(t, "config/patterns.yaml", cfg.Patterns.Path)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
service:
  name: research-orchestrator
  metrics_port: 9091
temporal:
  host_port: temporal:7233
  task_queue: research-tasks
research:
  max_results: 5
redis:
  enabled: true
  addr: redis:6379
  page_ttl: 30m
database:
  enabled: true
  host: pg
  database: tasks
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "research-orchestrator", cfg.Service.Name)
	assert.Equal(t, 9091, cfg.Service.MetricsPort)
	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "research-tasks", cfg.Temporal.TaskQueue)
	assert.Equal(t, 5, cfg.Research.MaxResults)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Redis.PageTTL)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "pg", cfg.Database.Host)
	assert.Equal(t, "tasks", cfg.Database.Database)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("FIRECRAWL_API_KEY", "fc-secret")
	t.Setenv("SMTP_USER", "bot@example.com")
	t.Setenv("SMTP_PASS", "hunter2")
	t.Setenv("DATABASE_PASSWORD", "pgpass")
	t.Setenv("METRICS_PORT", "9200")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "fc-secret", cfg.Research.Firecrawl.APIKey)
	assert.Equal(t, "bot@example.com", cfg.Email.User)
	assert.Equal(t, "hunter2", cfg.Email.Pass)
	assert.Equal(t, "pgpass", cfg.Database.Password)
	assert.Equal(t, 9200, cfg.Service.MetricsPort)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "service: {broken")
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	assert.Error(t, err)
}
