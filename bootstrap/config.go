package bootstrap

import (
	"fmt"
	"os"

	"plinth/config"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger initializes the zap logger with colored console output.
func InitLogger() (*zap.Logger, *zap.SugaredLogger, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)

	core := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(os.Stdout),
		zapcore.DebugLevel,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, logger.Sugar(), nil
}

// InitConfig loads the application configuration. A non-nil overrides
// mapping replaces defaults wholesale for the supplied keys and skips the
// config file, which is how tests inject their configuration.
func InitConfig(sugar *zap.SugaredLogger, overrides map[string]any) (*config.Config, error) {
	cfg, err := config.LoadConfig(overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load config: %v\n", err)
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if overrides != nil {
		sugar.Info("Using supplied configuration overrides")
	} else if viper.ConfigFileUsed() == "" {
		sugar.Info("No config file found, using defaults and env vars")
	}

	sugar.Infow("Config loaded",
		"environment", cfg.Environment,
		"instance_dir", cfg.GetInstanceDir(),
		"sqlite_path", cfg.GetSQLitePath(),
		"api_port", cfg.API.Port)

	if cfg.IsDevelopment() && cfg.SecretKey == config.DefaultSecretKey {
		sugar.Warn("Using the default secret key; set PLINTH_SECRET_KEY before deploying")
	}

	return cfg, nil
}
