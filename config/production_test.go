package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProductionConfigDefaults(t *testing.T) {
	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "redis", cfg.Cache.Provider)
	assert.False(t, cfg.Cache.SingleProcess)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL)
	assert.Equal(t, 10*time.Minute, cfg.Reconciler.Interval)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadProductionConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CACHE_PROVIDER", "memory")
	t.Setenv("CACHE_SINGLE_PROCESS", "true")
	t.Setenv("CACHE_DEFAULT_TTL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("STORAGE_S3_BUCKET", "helpers-bucket")
	t.Setenv("RECONCILER_ENABLED", "false")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Cache.Provider)
	assert.True(t, cfg.Cache.SingleProcess)
	assert.Equal(t, 30*time.Second, cfg.Cache.DefaultTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, "helpers-bucket", cfg.Storage.S3Bucket)
	assert.False(t, cfg.Reconciler.Enabled)
}

func TestLoadProductionConfigIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("CACHE_ENABLED", "maybe")

	cfg, err := LoadProductionConfig()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.True(t, cfg.Cache.Enabled)
}

func TestValidateProductionConfig(t *testing.T) {
	valid := func() *ProductionConfig {
		cfg, err := LoadProductionConfig()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*ProductionConfig)
		want   string
	}{
		{name: "MissingDBHost", mutate: func(c *ProductionConfig) { c.Database.Host = "" }, want: "DB_HOST is required"},
		{name: "BadServerPort", mutate: func(c *ProductionConfig) { c.Server.Port = 70000 }, want: "SERVER_PORT"},
		{name: "BadLogOutput", mutate: func(c *ProductionConfig) { c.Logging.Output = "syslog" }, want: "LOG_OUTPUT"},
		{name: "MemoryCacheAcrossProcesses", mutate: func(c *ProductionConfig) { c.Cache.Provider = "memory" }, want: "CACHE_SINGLE_PROCESS"},
		{name: "UnknownCacheProvider", mutate: func(c *ProductionConfig) { c.Cache.Provider = "memcached" }, want: "CACHE_PROVIDER"},
		{name: "S3WithoutBucket", mutate: func(c *ProductionConfig) { c.Storage.Provider = "s3" }, want: "STORAGE_S3_BUCKET"},
		{name: "UnknownStorage", mutate: func(c *ProductionConfig) { c.Storage.Provider = "ftp" }, want: "STORAGE_PROVIDER"},
		{name: "ReconcilerWithoutInterval", mutate: func(c *ProductionConfig) { c.Reconciler.Interval = 0 }, want: "RECONCILER_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateProductionConfig(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("DisabledCacheSkipsCacheChecks", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Enabled = false
		cfg.Cache.Provider = "memcached"
		assert.NoError(t, ValidateProductionConfig(cfg))
	})
}
