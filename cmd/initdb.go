// Package cmd provides command-line interface commands for plinth.
package cmd

import (
	"context"
	"fmt"
	"time"

	"plinth/config"
	"plinth/storage"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLI output formatters
var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
)

// defaultTimeout bounds CLI operations so a locked database cannot hang
// the command forever.
const defaultTimeout = 1 * time.Minute

// NewInitDBCmd creates the init-db command. It clears any existing data
// and recreates the tables from the embedded schema.
func NewInitDBCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "init-db",
		Short: "Clear the existing data and create new tables",
		Long: "Apply the embedded schema.sql to the configured database file,\n" +
			"dropping any existing tables first.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultTimeout)
			defer cancel()
			return runInitDB(ctx, cmd, quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	return cmd
}

func runInitDB(ctx context.Context, cmd *cobra.Command, quiet bool) error {
	cfg, err := config.LoadConfig(nil)
	if err != nil {
		errorColor.Fprintf(cmd.ErrOrStderr(), "Failed to load config: %v\n", err)
		return err
	}

	// The CLI owns the terminal; keep zap out of the output
	logger := zap.NewNop().Sugar()

	db, err := storage.NewSQLite(cfg.GetSQLitePath(), logger)
	if err != nil {
		errorColor.Fprintf(cmd.ErrOrStderr(), "Failed to open database at %s: %v\n", cfg.GetSQLitePath(), err)
		return err
	}
	defer db.Close()

	var s *spinner.Spinner
	if !quiet {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Applying schema..."
		s.Start()
	}

	err = db.InitSchema(ctx)

	if s != nil {
		s.Stop()
	}

	if err != nil {
		errorColor.Fprintf(cmd.ErrOrStderr(), "Failed to initialize database: %v\n", err)
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Initialized the database.")
	return nil
}
