package syncer

import (
	"context"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/merge"
	"github.com/courtside-data/atp-cli/internal/model"
	"github.com/courtside-data/atp-cli/internal/scrape"
)

// Rankings scrapes ranking snapshots that exist remotely but are not
// stored yet, newest first, up to maxWeeks (0 = all missing). It
// returns the number of weeks successfully processed. A week that
// fails to fetch or parse is skipped; zero successes is a no-op that
// never touches storage.
func (s *Syncer) Rankings(ctx context.Context, rankingType model.RankingType, maxWeeks int) (int, error) {
	if !rankingType.Valid() {
		return 0, eris.Errorf("syncer: invalid ranking type %q", rankingType)
	}
	log := s.log.With(zap.String("sync", "rankings"), zap.String("type", string(rankingType)))

	allDates := s.rankingDates(ctx, rankingType)
	if len(allDates) == 0 {
		log.Warn("could not enumerate ranking dates")
		return 0, nil
	}

	existing, err := dataset.LoadTableOrEmpty[model.Ranking](ctx, s.store, rankingType.Dataset())
	if err != nil {
		return 0, err
	}

	missing := missingDates(allDates, existing)
	if len(missing) == 0 {
		log.Info("no missing snapshots")
		return 0, nil
	}
	if maxWeeks > 0 && len(missing) > maxWeeks {
		missing = missing[:maxWeeks]
	}
	log.Info("scraping missing snapshots", zap.Int("count", len(missing)))

	var newRankings []model.Ranking
	var newPlayers []model.Player
	processed := 0

	for i, date := range missing {
		if ctx.Err() != nil {
			break
		}
		log.Info("scraping snapshot",
			zap.Int("n", i+1),
			zap.Int("of", len(missing)),
			zap.String("date", date),
		)

		doc, err := s.client.Get(ctx, s.client.RankingsURL(string(rankingType), date))
		if err != nil {
			log.Warn("skipping snapshot", zap.String("date", date), zap.Error(err))
			continue
		}

		rankings, players := scrape.ParseRankingPage(doc, string(rankingType), date)
		if len(rankings) == 0 {
			log.Warn("no ranking rows found", zap.String("date", date))
			continue
		}

		newRankings = append(newRankings, rankings...)
		newPlayers = append(newPlayers, players...)
		processed++
	}

	if processed == 0 {
		log.Warn("no snapshots were successfully scraped")
		return 0, nil
	}

	merged := merge.Upsert(existing, newRankings, model.Ranking.Key)
	if err := dataset.SaveTable(ctx, s.store, rankingType.Dataset(), merged); err != nil {
		return 0, err
	}

	if err := s.mergePlayerNames(ctx, newPlayers); err != nil {
		return 0, err
	}

	log.Info("rankings sync complete", zap.Int("weeks", processed))
	return processed, nil
}

// rankingDates fetches the date dropdown; an unreachable page yields
// an empty enumeration, not a failed run.
func (s *Syncer) rankingDates(ctx context.Context, rankingType model.RankingType) []string {
	doc, err := s.client.Get(ctx, s.client.RankingDatesURL(string(rankingType)))
	if err != nil {
		s.log.Warn("fetch ranking dates", zap.String("type", string(rankingType)), zap.Error(err))
		return nil
	}
	return scrape.ParseRankingDates(doc)
}

// missingDates diffs the remote snapshot list against stored dates and
// orders the gap most-recent-first.
func missingDates(remote []string, stored []model.Ranking) []string {
	seen := make(map[string]struct{}, len(stored))
	for _, r := range stored {
		seen[r.Date] = struct{}{}
	}

	var missing []string
	for _, d := range remote {
		if _, ok := seen[d]; !ok {
			missing = append(missing, d)
		}
	}
	// ISO dates sort lexicographically; descending puts newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(missing)))
	return missing
}

// mergePlayerNames folds newly seen (id, name) pairs into the player
// table without ever disturbing known names or bio fields.
func (s *Syncer) mergePlayerNames(ctx context.Context, players []model.Player) error {
	if len(players) == 0 {
		return nil
	}

	existing, err := dataset.LoadTableOrEmpty[model.Player](ctx, s.store, model.DatasetPlayers)
	if err != nil {
		return err
	}

	// Collapse duplicates across snapshots, keeping the newest name.
	incoming := merge.Upsert(nil, players, model.Player.Key)
	merged := merge.Players(existing, incoming)
	return dataset.SaveTable(ctx, s.store, model.DatasetPlayers, merged)
}
