package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/templui/gymapp/cmd/gymctl/cmd"
	"github.com/templui/gymapp/internal/config"
	"github.com/templui/gymapp/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	rootCmd := &cobra.Command{
		Use:          "gymctl",
		Short:        "Maintenance tools for the gymapp database and snapshots",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd(cfg))
	rootCmd.AddCommand(cmd.ImportCmd(cfg))
	rootCmd.AddCommand(cmd.ExportCmd(cfg))
	rootCmd.AddCommand(cmd.SeedCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		logger.Flush()
		os.Exit(1)
	}
}
