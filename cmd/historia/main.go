// Package main provides the entry point for the historia CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version       = "0.1.0-dev"
	globalConfig  string
	globalDataDir string
	globalLimit   int
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:     "historia",
		Short:   "Ingest historical datasets into a canonical knowledge store",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&globalConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&globalDataDir, "data-dir", "", "Override the dataset root directory")
	rootCmd.PersistentFlags().IntVar(&globalLimit, "limit", 0, "Limit records processed per source (0 = no limit)")

	rootCmd.AddCommand(
		newPleiadesCmd(),
		newConnectionsCmd(),
		newEclipsesCmd(),
		newPerseusCmd(),
		newArchiveCmd(),
		newAllCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}
