package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdirTest(t, t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "poem-analysis:", cfg.Cache.Prefix)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEnvOverrides(t *testing.T) {
	chdirTest(t, t.TempDir())
	t.Setenv("POEMLAB_CACHE__BACKEND", "redis")
	t.Setenv("POEMLAB_CACHE__TTL", "90m")
	t.Setenv("POEMLAB_REDIS__ADDR", "cache:6380")
	t.Setenv("POEMLAB_WORKERS", "4")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdirTest(t, dir)
	path := filepath.Join(dir, "poemlab.yaml")
	body := "log:\n  level: debug\n  format: json\ncache:\n  backend: file\n  dir: /tmp/poems\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/poems", cfg.Cache.Dir)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdirTest(t, t.TempDir())
	t.Setenv("POEMLAB_CACHE__BACKEND", "s3")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdirTest(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("POEMLAB_LOG__LEVEL=warn\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("POEMLAB_LOG__LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
}
