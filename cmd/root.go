package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "atp-cli",
	Short: "Incremental mirror of the public tour site",
	Long:  "Scrapes rankings, tournament results, and player bios from the public tour site, merges them into columnar datasets, and serves them over a query API.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
