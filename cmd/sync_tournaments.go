package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/model"
)

var (
	tournamentYears string
	tournamentTypes []string
)

var syncTournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "Sync tournament results for a year range",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		years, err := parseYearRange(tournamentYears)
		if err != nil {
			return err
		}

		types := tournamentTypes
		if len(types) == 0 {
			types = cfg.Sync.TournamentTypes
		}

		env, err := initEnv(ctx, "sync")
		if err != nil {
			return err
		}
		defer env.Close()

		scraped, err := runLogged(ctx, env.log, model.DatasetTournaments, func(ctx context.Context) (int, error) {
			return env.syncer.UpdateTournaments(ctx, years, types)
		})
		if err != nil {
			return err
		}

		zap.L().Info("tournaments synced",
			zap.Ints("years", years),
			zap.Strings("types", types),
			zap.Int("tournaments", scraped),
		)
		return nil
	},
}

// parseYearRange accepts "2024", "2022-2025", or "2022,2023,2025".
// An empty value means the current year.
func parseYearRange(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{time.Now().Year()}, nil
	}

	if from, to, ok := strings.Cut(s, "-"); ok {
		lo, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, eris.Errorf("invalid year range %q", s)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, eris.Errorf("invalid year range %q", s)
		}
		if hi < lo {
			return nil, eris.Errorf("year range %q is backwards", s)
		}
		years := make([]int, 0, hi-lo+1)
		for y := lo; y <= hi; y++ {
			years = append(years, y)
		}
		return years, nil
	}

	var years []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, eris.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}

func init() {
	syncTournamentsCmd.Flags().StringVar(&tournamentYears, "years", "", "year, comma list, or range like 2022-2025 (default current year)")
	syncTournamentsCmd.Flags().StringSliceVar(&tournamentTypes, "types", nil, "tournament types: gs, atp, ch, fu (default from config)")
	syncCmd.AddCommand(syncTournamentsCmd)
}
