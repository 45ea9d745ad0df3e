// Package main is the entry point for the plinth web application skeleton.
package main

import (
	"context"
	"fmt"
	"os"

	"plinth/bootstrap"
	"plinth/cmd"

	"github.com/spf13/cobra"
)

// run initializes and starts the application, then blocks until shutdown.
func run() error {
	ctx := context.Background()

	app, err := bootstrap.NewApp(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Start(ctx); err != nil {
		app.Shutdown()
		return fmt.Errorf("failed to start application: %w", err)
	}

	app.WaitForShutdown()

	app.Shutdown()

	return nil
}

// main is the entry point.
func main() {
	// Check if running as CLI command
	if len(os.Args) > 1 {
		var cliCmd *cobra.Command
		switch os.Args[1] {
		case "init-db":
			cliCmd = cmd.NewInitDBCmd()
		case "config":
			cliCmd = cmd.NewConfigCmd()
		}

		if cliCmd != nil {
			// Strip the command name since the command already knows what it is
			os.Args = append([]string{os.Args[0]}, os.Args[2:]...)
			if err := cliCmd.Execute(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	// Otherwise run as normal server
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
