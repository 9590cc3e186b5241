package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("REDIS_HOST", "")

	cfg := Load()

	assert.Equal(t, "8087", cfg.AppPort)
	assert.Equal(t, 60*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 15*time.Second, cfg.HTTP.WriteTimeout)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "5m")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	cfg := Load()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 5*time.Minute, cfg.JWT.TTL)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout, "invalid duration falls back to default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "development without secret",
			mutate: func(c *Config) { c.AppEnv = "development"; c.JWT.Secret = "" },
		},
		{
			name:    "production without secret",
			mutate:  func(c *Config) { c.AppEnv = "production"; c.JWT.Secret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "non positive ttl",
			mutate:  func(c *Config) { c.JWT.Secret = "x"; c.JWT.TTL = 0 },
			wantErr: "JWT_TTL must be positive",
		},
		{
			name:    "bad redis db",
			mutate:  func(c *Config) { c.JWT.Secret = "x"; c.Redis.RedisDB = "zero" },
			wantErr: "REDIS_DB must be a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnsureSecret(t *testing.T) {
	cfg := JWTConfig{}

	generated, err := cfg.EnsureSecret()
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, cfg.Secret, 64)

	first := cfg.Secret
	generated, err = cfg.EnsureSecret()
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, first, cfg.Secret, "a configured secret is kept")

	other := JWTConfig{}
	_, err = other.EnsureSecret()
	require.NoError(t, err)
	assert.NotEqual(t, first, other.Secret)
}
