package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, DefaultSecretKey, cfg.SecretKey)
	assert.Equal(t, "./instance", cfg.GetInstanceDir())
	assert.Equal(t, filepath.Join("./instance", "plinth.db"), cfg.GetSQLitePath())
	assert.Equal(t, 8080, cfg.API.Port)
	assert.False(t, cfg.API.TLS)
	assert.Equal(t, 10*time.Second, cfg.API.ShutdownTimeout)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigOverridesReplaceDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(map[string]any{
		"secret_key":              "test-secret",
		"data_paths.sqlite_path":  ":memory:",
		"data_paths.instance_dir": t.TempDir(),
		"api.port":                9090,
	})
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.SecretKey)
	assert.Equal(t, ":memory:", cfg.GetSQLitePath())
	assert.Equal(t, 9090, cfg.API.Port)

	// Keys not overridden keep their defaults
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, 100, cfg.API.RateLimit.RequestsPerSecond)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("PLINTH_SECRET_KEY", "from-env")
	t.Setenv("PLINTH_API_PORT", "9999")

	cfg, err := LoadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.SecretKey)
	assert.Equal(t, 9999, cfg.API.Port)
}

func TestLoadConfigSQLitePathDerivedFromInstanceDir(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()

	cfg, err := LoadConfig(map[string]any{
		"data_paths.instance_dir": dir,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "plinth.db"), cfg.GetSQLitePath())
}

func TestLoadConfigRejectsDevSecretInProduction(t *testing.T) {
	viper.Reset()

	_, err := LoadConfig(map[string]any{
		"environment": EnvProduction,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret_key")
}

func TestLoadConfigProductionWithRealSecret(t *testing.T) {
	viper.Reset()

	cfg, err := LoadConfig(map[string]any{
		"environment": EnvProduction,
		"secret_key":  "c2VjcmV0LWtleS1mb3ItcHJvZA",
	})
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
		wantErr   string
	}{
		{
			name:      "invalid environment",
			overrides: map[string]any{"environment": "staging"},
			wantErr:   "invalid environment",
		},
		{
			name:      "empty secret key",
			overrides: map[string]any{"secret_key": ""},
			wantErr:   "secret_key",
		},
		{
			name:      "port out of range",
			overrides: map[string]any{"api.port": 70000},
			wantErr:   "invalid API port",
		},
		{
			name:      "zero rate limit",
			overrides: map[string]any{"api.rate_limit.requests_per_second": 0},
			wantErr:   "rate limit",
		},
		{
			name:      "tls without key file",
			overrides: map[string]any{"api.tls": true, "api.key_file": ""},
			wantErr:   "TLS enabled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			_, err := LoadConfig(tt.overrides)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
