package cmd

import (
	"fmt"

	"plinth/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command, which prints the effective
// configuration after defaults, config file and environment variables have
// been merged and paths resolved.
func NewConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "config",
		Short:        "Print the effective configuration",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(nil)
			if err != nil {
				errorColor.Fprintf(cmd.ErrOrStderr(), "Failed to load config: %v\n", err)
				return err
			}

			// Render the resolved Config, not raw viper state: the SQLite
			// path is derived from the instance directory after loading,
			// and raw state would show it empty.
			settings := map[string]any{
				"environment": cfg.Environment,
				"secret_key":  "[redacted]",
				"data_paths": map[string]string{
					"instance_dir": cfg.GetInstanceDir(),
					"sqlite_path":  cfg.GetSQLitePath(),
				},
				"api": map[string]any{
					"host":             cfg.API.Host,
					"port":             cfg.API.Port,
					"tls":              cfg.API.TLS,
					"cert_file":        cfg.API.CertFile,
					"key_file":         cfg.API.KeyFile,
					"shutdown_timeout": cfg.API.ShutdownTimeout.String(),
					"rate_limit": map[string]int{
						"requests_per_second": cfg.API.RateLimit.RequestsPerSecond,
						"burst":               cfg.API.RateLimit.Burst,
					},
				},
			}

			out, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}

			if cfg.IsDevelopment() && cfg.SecretKey == config.DefaultSecretKey {
				warningColor.Fprintln(cmd.ErrOrStderr(), "Warning: using the default secret key")
			}

			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
