package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statusRecent int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show dataset summary and recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx, "sync")
		if err != nil {
			return err
		}
		defer env.Close()

		summary, err := env.syncer.Summarize(ctx)
		if err != nil {
			return err
		}

		runs, err := env.log.Recent(ctx, statusRecent)
		if err != nil {
			return err
		}

		out := struct {
			Datasets any `yaml:"datasets"`
			Runs     any `yaml:"recent_runs"`
		}{Datasets: summary, Runs: runs}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode status: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusRecent, "recent", 10, "number of recent sync runs to show")
	rootCmd.AddCommand(statusCmd)
}
