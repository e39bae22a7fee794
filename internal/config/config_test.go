package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Reads values from the yaml file", func(t *testing.T) {
		// Given: a config file overriding a few values
		path := filepath.Join(t.TempDir(), "config.yml")
		content := []byte("log-level: debug\nhttp-port: \"8080\"\nsession-store: redis\nsession-ttl: 1h\nredis:\n  host: cache\n")
		require.NoError(t, os.WriteFile(path, content, 0o600))

		// When: the config is loaded
		conf, err := Load(path)

		// Then: file values win, the rest keep their defaults
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, StoreRedis, conf.SessionStore)
		assert.Equal(t, time.Hour, conf.SessionTTL)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, "https://friendbot.stellar.org", conf.Stellar.FriendbotURL)
	})

	t.Run("Falls back to the environment when the file is missing", func(t *testing.T) {
		// Given: no config file and a few env overrides
		t.Setenv("PORT", "4000")
		t.Setenv("HORIZON_URL", "http://localhost:8000")

		// When: the config is loaded from a missing path
		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		// Then: env values and defaults are used
		require.NoError(t, err)
		assert.Equal(t, "4000", conf.HTTPPort)
		assert.Equal(t, "http://localhost:8000", conf.Stellar.HorizonURL)
		assert.Equal(t, StoreMemory, conf.SessionStore)
		assert.Equal(t, 24*time.Hour, conf.SessionTTL)
		assert.False(t, conf.RateLimit.Disabled)
	})
}
