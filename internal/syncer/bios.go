package syncer

import (
	"context"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/merge"
	"github.com/courtside-data/atp-cli/internal/model"
	"github.com/courtside-data/atp-cli/internal/scrape"
)

// bestRank is a player's lowest rank ever achieved in one table and
// the snapshot date it first appeared.
type bestRank struct {
	rank int64
	date string
}

// candidate is a player queued for bio enrichment, carrying the
// priority key: best rank across singles and doubles (coalesced
// singles first), with its date.
type candidate struct {
	player model.Player
	rank   *int64
	date   *string
}

// PlayerBios enriches the bio bundle of the numPlayers highest-ranked
// players that are still missing core bio fields. Pages are rendered
// through the injected renderer because their content is populated by
// script. A player whose render or parse fails contributes nothing;
// the count of players with at least one field obtained is returned.
func (s *Syncer) PlayerBios(ctx context.Context, numPlayers int) (int, error) {
	if s.renderer == nil {
		return 0, eris.New("syncer: bio sync requires a renderer")
	}
	log := s.log.With(zap.String("sync", "bios"))

	players, err := dataset.LoadTableOrEmpty[model.Player](ctx, s.store, model.DatasetPlayers)
	if err != nil {
		return 0, err
	}
	singles, err := dataset.LoadTableOrEmpty[model.Ranking](ctx, s.store, model.RankingSingles.Dataset())
	if err != nil {
		return 0, err
	}
	doubles, err := dataset.LoadTableOrEmpty[model.Ranking](ctx, s.store, model.RankingDoubles.Dataset())
	if err != nil {
		return 0, err
	}

	queue := enrichmentQueue(players, bestRanks(singles), bestRanks(doubles))
	if numPlayers > 0 && len(queue) > numPlayers {
		queue = queue[:numPlayers]
	}
	if len(queue) == 0 {
		log.Info("no players need bio data")
		return 0, nil
	}
	log.Info("scraping player bios", zap.Int("count", len(queue)))

	var updates []model.Player
	for i, c := range queue {
		if ctx.Err() != nil {
			break
		}
		log.Info("scraping player",
			zap.Int("n", i+1),
			zap.Int("of", len(queue)),
			zap.String("player", c.player.Name),
		)

		bio, ok := s.scrapeBio(ctx, c.player)
		if !ok {
			continue
		}
		updates = append(updates, bio)
	}

	if len(updates) == 0 {
		log.Warn("no player bios were successfully scraped")
		return 0, nil
	}

	merged := merge.Players(players, updates)
	if err := dataset.SaveTable(ctx, s.store, model.DatasetPlayers, merged); err != nil {
		return 0, err
	}

	log.Info("bio sync complete", zap.Int("players", len(updates)))
	return len(updates), nil
}

// scrapeBio renders and parses one player's overview page. Any failure
// is absorbed here: the player simply contributes nothing to the run.
func (s *Syncer) scrapeBio(ctx context.Context, p model.Player) (model.Player, bool) {
	log := s.log.With(zap.String("player_id", p.PlayerID), zap.String("player", p.Name))

	slug := scrape.PlayerSlug(p.Name)
	if slug == "" {
		log.Warn("cannot build profile slug without a name")
		return model.Player{}, false
	}

	html, err := s.renderer.Render(ctx, s.client.PlayerOverviewURL(slug, p.PlayerID))
	if err != nil {
		log.Warn("render failed", zap.Error(err))
		return model.Player{}, false
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Warn("parse rendered page", zap.Error(err))
		return model.Player{}, false
	}

	bio, err := scrape.ParsePlayerBio(doc)
	if err != nil {
		log.Warn("bio block missing", zap.Error(err))
		return model.Player{}, false
	}
	if !scrape.HasBioFields(bio) {
		log.Warn("no bio fields found")
		return model.Player{}, false
	}

	// Identity and name ride along so the field merge targets the
	// right row and can never blank the name.
	bio.PlayerID = p.PlayerID
	bio.Name = p.Name
	return bio, true
}

// bestRanks reduces a ranking table to each player's lowest rank and
// the date of the first snapshot where it was achieved.
func bestRanks(rankings []model.Ranking) map[string]bestRank {
	best := make(map[string]bestRank)
	for _, r := range rankings {
		if r.Rank == nil || r.PlayerID == "" {
			continue
		}
		cur, ok := best[r.PlayerID]
		if !ok || *r.Rank < cur.rank {
			best[r.PlayerID] = bestRank{rank: *r.Rank, date: r.Date}
		}
	}
	return best
}

// enrichmentQueue filters to players missing core bio fields and
// orders them best rank first (unranked last), breaking ties by the
// most recent best-rank date.
func enrichmentQueue(players []model.Player, singles, doubles map[string]bestRank) []candidate {
	var queue []candidate
	for _, p := range players {
		if !p.MissingBio() {
			continue
		}

		c := candidate{player: p}
		if b, ok := singles[p.PlayerID]; ok {
			c.rank = model.Int64Ptr(b.rank)
			c.date = model.StringPtr(b.date)
		} else if b, ok := doubles[p.PlayerID]; ok {
			c.rank = model.Int64Ptr(b.rank)
			c.date = model.StringPtr(b.date)
		}
		queue = append(queue, c)
	}

	sort.SliceStable(queue, func(i, j int) bool {
		a, b := queue[i], queue[j]
		switch {
		case a.rank == nil && b.rank == nil:
			return false
		case a.rank == nil:
			return false
		case b.rank == nil:
			return true
		case *a.rank != *b.rank:
			return *a.rank < *b.rank
		}
		// Equal ranks: most recent achievement first, unknown dates last.
		switch {
		case a.date == nil:
			return false
		case b.date == nil:
			return true
		default:
			return *a.date > *b.date
		}
	})

	return queue
}
