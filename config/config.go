package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Environment names recognized by the service.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultSecretKey is the out-of-the-box secret key. It is only acceptable
// in development; validation rejects it when environment is production.
const DefaultSecretKey = "dev"

// DataPaths holds the instance directory and database file configuration.
// These paths can be overridden via environment variables.
type DataPaths struct {
	// InstanceDir is the deployment-specific data directory
	// (PLINTH_INSTANCE_DIR, default: ./instance)
	InstanceDir string `mapstructure:"instance_dir"`
	// SQLitePath is the SQLite database file path
	// (PLINTH_SQLITE_PATH, default: ${InstanceDir}/plinth.db)
	SQLitePath string `mapstructure:"sqlite_path"`
}

// Config holds all configuration for the plinth service.
type Config struct {
	// Environment is "development" or "production"
	Environment string `mapstructure:"environment"`

	// SecretKey is used for signing session material. The default "dev"
	// value must be overridden in production.
	SecretKey string `mapstructure:"secret_key"`

	// DataPaths holds instance directory configuration
	DataPaths DataPaths `mapstructure:"data_paths"`

	API struct {
		Host            string        `mapstructure:"host"`
		Port            int           `mapstructure:"port"`
		TLS             bool          `mapstructure:"tls"`
		CertFile        string        `mapstructure:"cert_file"`
		KeyFile         string        `mapstructure:"key_file"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
		RateLimit       struct {
			RequestsPerSecond int `mapstructure:"requests_per_second"`
			Burst             int `mapstructure:"burst"`
		} `mapstructure:"rate_limit"`
	} `mapstructure:"api"`
}

func setDefaults() {
	viper.SetDefault("environment", EnvDevelopment)
	viper.SetDefault("secret_key", DefaultSecretKey)

	// Instance paths - sqlite path derives from instance_dir when empty
	viper.SetDefault("data_paths.instance_dir", "./instance")
	viper.SetDefault("data_paths.sqlite_path", "")

	viper.SetDefault("api.host", "0.0.0.0")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("api.tls", false)
	viper.SetDefault("api.cert_file", "server.crt")
	viper.SetDefault("api.key_file", "server.key")
	viper.SetDefault("api.shutdown_timeout", 10*time.Second)
	viper.SetDefault("api.rate_limit.requests_per_second", 100)
	viper.SetDefault("api.rate_limit.burst", 100)
}

func loadFromEnv() {
	viper.SetEnvPrefix("PLINTH")
	viper.AutomaticEnv()

	// Explicit bindings for shorter, cleaner env var names
	_ = viper.BindEnv("environment", "PLINTH_ENV")
	_ = viper.BindEnv("secret_key", "PLINTH_SECRET_KEY")
	_ = viper.BindEnv("data_paths.instance_dir", "PLINTH_INSTANCE_DIR")
	_ = viper.BindEnv("data_paths.sqlite_path", "PLINTH_SQLITE_PATH")
	_ = viper.BindEnv("api.port", "PLINTH_API_PORT")
}

// LoadConfig loads configuration from file and environment variables.
//
// When overrides is non-nil the config file lookup is skipped entirely and
// every supplied key replaces its default, mirroring how a test
// configuration fully substitutes deployment config. Keys use viper dotted
// notation, e.g. "data_paths.sqlite_path".
func LoadConfig(overrides map[string]any) (*Config, error) {
	setDefaults()
	loadFromEnv()

	if overrides == nil {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")

		if err := viper.ReadInConfig(); err != nil {
			// Config file not found, use defaults and env vars
		}
	} else {
		for key, value := range overrides {
			viper.Set(key, value)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	config.ResolveDataPaths()

	return &config, nil
}

// ResolveDataPaths resolves the SQLite path, deriving it from the instance
// directory when not explicitly set.
func (c *Config) ResolveDataPaths() {
	instanceDir := c.DataPaths.InstanceDir
	if instanceDir == "" {
		instanceDir = "./instance"
	}

	if c.DataPaths.SQLitePath == "" {
		c.DataPaths.SQLitePath = filepath.Join(instanceDir, "plinth.db")
	} else if c.DataPaths.SQLitePath != ":memory:" && !filepath.IsAbs(c.DataPaths.SQLitePath) {
		c.DataPaths.SQLitePath = filepath.Clean(c.DataPaths.SQLitePath)
	}

	c.DataPaths.InstanceDir = instanceDir
}

// GetInstanceDir returns the resolved instance directory.
func (c *Config) GetInstanceDir() string {
	if c.DataPaths.InstanceDir == "" {
		return "./instance"
	}
	return c.DataPaths.InstanceDir
}

// GetSQLitePath returns the resolved SQLite database file path.
func (c *Config) GetSQLitePath() string {
	if c.DataPaths.SQLitePath == "" {
		return filepath.Join(c.GetInstanceDir(), "plinth.db")
	}
	return c.DataPaths.SQLitePath
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment != EnvProduction
}

func validateConfig(config *Config) error {
	switch config.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("invalid environment %q: must be %q or %q",
			config.Environment, EnvDevelopment, EnvProduction)
	}

	if config.SecretKey == "" {
		return fmt.Errorf("secret_key must not be empty")
	}
	if config.Environment == EnvProduction && config.SecretKey == DefaultSecretKey {
		return fmt.Errorf("secret_key %q is not allowed in production: set PLINTH_SECRET_KEY to a random value", DefaultSecretKey)
	}

	if config.API.Port < 1 || config.API.Port > 65535 {
		return fmt.Errorf("invalid API port %d: must be between 1 and 65535", config.API.Port)
	}

	if config.API.TLS {
		if config.API.CertFile == "" || config.API.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert_file or key_file is empty")
		}
	}

	if config.API.RateLimit.RequestsPerSecond < 1 {
		return fmt.Errorf("invalid rate limit %d: requests_per_second must be at least 1", config.API.RateLimit.RequestsPerSecond)
	}
	if config.API.RateLimit.Burst < 1 {
		return fmt.Errorf("invalid rate limit burst %d: must be at least 1", config.API.RateLimit.Burst)
	}

	return nil
}
