package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: a config file that only sets the log level
		path := writeConfig(t, "log-level: info\n")

		// When: the config is loaded
		conf, err := Load(path)

		// Then: defaults are applied
		require.NoError(t, err)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, CacheMemory, conf.Cache.Backend)
		assert.Equal(t, time.Duration(0), conf.Cache.TTL)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("File values", func(t *testing.T) {
		path := writeConfig(t, `
log-level: debug
http-port: "8080"
cache:
  backend: redis
  ttl: 1h
redis:
  host: cache
  port: "6380"
`)

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, CacheRedis, conf.Cache.Backend)
		assert.Equal(t, time.Hour, conf.Cache.TTL)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
	})

	t.Run("Environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "http-port: \"8080\"\n")
		t.Setenv("HTTP_PORT", "7070")

		conf, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", conf.HTTPPort)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))

		require.Error(t, err)
		assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yml")) })
	})
}
