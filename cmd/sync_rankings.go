package main

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/model"
)

var (
	rankingsType     string
	rankingsMaxWeeks int
)

var syncRankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Sync missing weekly ranking snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var types []model.RankingType
		switch rankingsType {
		case "both":
			types = []model.RankingType{model.RankingSingles, model.RankingDoubles}
		case "singles", "doubles":
			types = []model.RankingType{model.RankingType(rankingsType)}
		default:
			return eris.Errorf("--type must be singles, doubles, or both, got %q", rankingsType)
		}

		maxWeeks := rankingsMaxWeeks
		if !cmd.Flags().Changed("max-weeks") {
			maxWeeks = cfg.Sync.MaxWeeks
		}

		env, err := initEnv(ctx, "sync")
		if err != nil {
			return err
		}
		defer env.Close()

		for _, rt := range types {
			processed, err := runLogged(ctx, env.log, rt.Dataset(), func(ctx context.Context) (int, error) {
				return env.syncer.Rankings(ctx, rt, maxWeeks)
			})
			if err != nil {
				return err
			}
			zap.L().Info("rankings synced",
				zap.String("type", string(rt)),
				zap.Int("weeks", processed),
			)
		}
		return nil
	},
}

func init() {
	syncRankingsCmd.Flags().StringVar(&rankingsType, "type", "both", "ranking type: singles, doubles, or both")
	syncRankingsCmd.Flags().IntVar(&rankingsMaxWeeks, "max-weeks", 0, "cap on missing weeks to scrape (0 = all, default from config)")
	syncCmd.AddCommand(syncRankingsCmd)
}
