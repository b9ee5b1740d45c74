// Package cmd holds the command-line entry points.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/satheeshds/invoicing/config"
	"github.com/satheeshds/invoicing/handlers"
)

var rootCmd = &cobra.Command{
	Use:     "invoicing",
	Short:   "Invoice tracking service",
	Long:    `Invoice tracking service: invoices, payments and serial numbers over a REST API.`,
	Version: handlers.Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads the environment and installs the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
