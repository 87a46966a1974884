package syncer

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/merge"
	"github.com/courtside-data/atp-cli/internal/model"
	"github.com/courtside-data/atp-cli/internal/scrape"
)

// Tournaments scrapes the results archive for every (year, type) pair.
// Each pair is an independent unit: a failed pair contributes an empty
// set and the rest of the product still runs. Only completed events
// (at least one declared winner) come back.
func (s *Syncer) Tournaments(ctx context.Context, years []int, types []string) ([]model.Tournament, error) {
	for _, t := range types {
		if !model.ValidTournamentType(t) {
			return nil, eris.Errorf("syncer: invalid tournament type %q, must be one of %v", t, model.TournamentTypes)
		}
	}
	log := s.log.With(zap.String("sync", "tournaments"))

	var out []model.Tournament
	for _, year := range years {
		for _, t := range types {
			if ctx.Err() != nil {
				return out, nil
			}

			doc, err := s.client.Get(ctx, s.client.ResultsArchiveURL(year, t))
			if err != nil {
				log.Warn("skipping archive page",
					zap.Int("year", year),
					zap.String("type", t),
					zap.Error(err),
				)
				continue
			}

			parsed := scrape.ParseResultsArchive(doc, int64(year), t)
			log.Info("scraped archive page",
				zap.Int("year", year),
				zap.String("type", t),
				zap.Int("tournaments", len(parsed)),
			)
			out = append(out, parsed...)
		}
	}
	return out, nil
}

// UpdateTournaments scrapes the given (year, type) product and merges
// the union of successful pairs into the tournament table by composite
// key. Returns the number of tournaments scraped; zero means storage
// was left untouched.
func (s *Syncer) UpdateTournaments(ctx context.Context, years []int, types []string) (int, error) {
	scraped, err := s.Tournaments(ctx, years, types)
	if err != nil {
		return 0, err
	}
	if len(scraped) == 0 {
		s.log.Warn("no tournaments scraped, leaving storage untouched")
		return 0, nil
	}

	existing, err := dataset.LoadTableOrEmpty[model.Tournament](ctx, s.store, model.DatasetTournaments)
	if err != nil {
		return 0, err
	}

	merged := merge.Upsert(existing, scraped, model.Tournament.Key)
	if err := dataset.SaveTable(ctx, s.store, model.DatasetTournaments, merged); err != nil {
		return 0, err
	}

	s.log.Info("tournament sync complete", zap.Int("scraped", len(scraped)))
	return len(scraped), nil
}
