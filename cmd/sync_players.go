package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/model"
)

var playersCount int

var syncPlayersCmd = &cobra.Command{
	Use:   "players",
	Short: "Enrich the highest-ranked players missing bio data",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		count := playersCount
		if !cmd.Flags().Changed("count") {
			count = cfg.Sync.NumPlayers
		}

		env, err := initEnv(ctx, "players")
		if err != nil {
			return err
		}
		defer env.Close()

		enriched, err := runLogged(ctx, env.log, model.DatasetPlayers, func(ctx context.Context) (int, error) {
			return env.syncer.PlayerBios(ctx, count)
		})
		if err != nil {
			return err
		}

		zap.L().Info("player bios synced", zap.Int("players", enriched))
		return nil
	},
}

func init() {
	syncPlayersCmd.Flags().IntVar(&playersCount, "count", 0, "number of players to enrich (0 = all missing, default from config)")
	syncCmd.AddCommand(syncPlayersCmd)
}
