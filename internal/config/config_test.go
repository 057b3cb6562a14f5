package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHash = "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvPort, EnvPublicURL, EnvEnvironment, EnvServiceName, EnvVersion, EnvCORSOrigins,
		EnvLogLevel, EnvLogFormat, EnvLogDir, EnvDatabaseURL, EnvSQLitePath,
		EnvMasterHash, EnvAdminHash, EnvTokenSecret, EnvTokenTTL, EnvSeedDefaultCatalog,
		EnvDefaultStoreID, EnvDefaultStoreName, EnvCatalogCacheTTL, EnvCatalogCacheSize, EnvDeadLetterPath,
	} {
		if prev, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, prev) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 3001, cfg.Port)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, "pos.db", cfg.SQLitePath)
		assert.False(t, cfg.UsesPostgres())
		assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
		assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
		assert.True(t, cfg.TokenSecretGenerated)
		assert.Len(t, cfg.TokenSecret, GeneratedSecretBytes*2)
	})

	t.Run("from environment", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv(EnvPort, "8081")
		t.Setenv(EnvLogLevel, "DEBUG")
		t.Setenv(EnvLogFormat, "json")
		t.Setenv(EnvDatabaseURL, "postgres://u:p@db/pos")
		t.Setenv(EnvMasterHash, strings.ToUpper(testHash))
		t.Setenv(EnvTokenSecret, "s3cret")
		t.Setenv(EnvTokenTTL, "30m")
		t.Setenv(EnvSeedDefaultCatalog, "true")
		t.Setenv(EnvCORSOrigins, "http://a.local, http://b.local")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 8081, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.True(t, cfg.UsesPostgres())
		assert.Equal(t, testHash, cfg.MasterHash, "hashes are normalised to lower case")
		assert.Equal(t, "s3cret", cfg.TokenSecret)
		assert.False(t, cfg.TokenSecretGenerated)
		assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
		assert.True(t, cfg.SeedDefaultCatalog)
		assert.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSOrigins)
	})

	t.Run("invalid port", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv(EnvPort, "not-a-number")

		cfg, err := Load()
		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid PORT")
	})

	t.Run("malformed hash", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv(EnvAdminHash, "abc")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_HASH")
	})

	t.Run("bad duration falls back to default", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv(EnvCatalogCacheTTL, "soon")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultCatalogCacheTTL, cfg.CatalogCacheTTL)
	})
}

func TestWarnings(t *testing.T) {
	cfg := &Config{TokenSecretGenerated: true, SQLitePath: "pos.db"}
	w := cfg.Warnings()
	assert.Len(t, w, 3)

	cfg = &Config{MasterHash: testHash, AdminHash: testHash, TokenSecret: "x", DatabaseURL: "postgres://"}
	w = cfg.Warnings()
	require.Len(t, w, 1)
	assert.Contains(t, w[0], "every login resolves to master")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: 0, LogFormat: "xml", TokenTTL: 0, CatalogCacheSize: 0}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"PORT", "LOG_FORMAT", "TOKEN_TTL", "CATALOG_CACHE_SIZE"} {
		assert.Contains(t, err.Error(), want)
	}
}
