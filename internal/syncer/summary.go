package syncer

import (
	"context"
	"errors"

	"github.com/courtside-data/atp-cli/internal/dataset"
	"github.com/courtside-data/atp-cli/internal/model"
)

// Summary describes the stored datasets: row counts, coverage, and
// blob sizes. Sections for datasets that were never written are nil.
type Summary struct {
	Players        *PlayerSummary  `json:"players" yaml:"players"`
	SinglesRanking *RankingSummary `json:"singles_rankings" yaml:"singles_rankings"`
	DoublesRanking *RankingSummary `json:"doubles_rankings" yaml:"doubles_rankings"`
	Tournaments    *TournSummary   `json:"tournaments" yaml:"tournaments"`
}

type PlayerSummary struct {
	Count     int   `json:"count" yaml:"count"`
	WithBio   int   `json:"with_bio" yaml:"with_bio"`
	Countries int   `json:"countries" yaml:"countries"`
	Bytes     int64 `json:"bytes" yaml:"bytes"`
}

type RankingSummary struct {
	Count    int    `json:"count" yaml:"count"`
	Players  int    `json:"players" yaml:"players"`
	Weeks    int    `json:"weeks" yaml:"weeks"`
	Earliest string `json:"earliest,omitempty" yaml:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty" yaml:"latest,omitempty"`
	Bytes    int64  `json:"bytes" yaml:"bytes"`
}

type TournSummary struct {
	Count     int            `json:"count" yaml:"count"`
	FirstYear int64          `json:"first_year,omitempty" yaml:"first_year,omitempty"`
	LastYear  int64          `json:"last_year,omitempty" yaml:"last_year,omitempty"`
	ByType    map[string]int `json:"by_type" yaml:"by_type"`
	Bytes     int64          `json:"bytes" yaml:"bytes"`
}

// Summarize inspects every dataset currently in the store. A dataset
// that does not exist yet produces a nil section rather than an error.
func (s *Syncer) Summarize(ctx context.Context) (*Summary, error) {
	out := &Summary{}

	players, size, err := loadWithSize[model.Player](ctx, s.store, model.DatasetPlayers)
	if err != nil {
		return nil, err
	}
	if players != nil {
		out.Players = summarizePlayers(players, size)
	}

	for _, rt := range []model.RankingType{model.RankingSingles, model.RankingDoubles} {
		rankings, size, err := loadWithSize[model.Ranking](ctx, s.store, rt.Dataset())
		if err != nil {
			return nil, err
		}
		if rankings == nil {
			continue
		}
		sec := summarizeRankings(rankings, size)
		if rt == model.RankingSingles {
			out.SinglesRanking = sec
		} else {
			out.DoublesRanking = sec
		}
	}

	tournaments, size, err := loadWithSize[model.Tournament](ctx, s.store, model.DatasetTournaments)
	if err != nil {
		return nil, err
	}
	if tournaments != nil {
		out.Tournaments = summarizeTournaments(tournaments, size)
	}

	return out, nil
}

// loadWithSize loads a table plus its blob size. Absence comes back as
// a nil slice with no error so callers can skip the section. The slice
// is never nil for an existing dataset, even an empty one.
func loadWithSize[T any](ctx context.Context, store dataset.Store, name string) ([]T, int64, error) {
	size, err := store.Stat(ctx, name)
	if errors.Is(err, dataset.ErrNotFound) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	rows, err := dataset.LoadTable[T](ctx, store, name)
	if err != nil {
		return nil, 0, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, size, nil
}

func summarizePlayers(players []model.Player, size int64) *PlayerSummary {
	sec := &PlayerSummary{Count: len(players), Bytes: size}
	countries := make(map[string]struct{})
	for _, p := range players {
		if p.Birthdate != nil {
			sec.WithBio++
		}
		if p.Country != nil {
			countries[*p.Country] = struct{}{}
		}
	}
	sec.Countries = len(countries)
	return sec
}

func summarizeRankings(rankings []model.Ranking, size int64) *RankingSummary {
	sec := &RankingSummary{Count: len(rankings), Bytes: size}
	players := make(map[string]struct{})
	weeks := make(map[string]struct{})
	for _, r := range rankings {
		players[r.PlayerID] = struct{}{}
		weeks[r.Date] = struct{}{}
		if sec.Earliest == "" || r.Date < sec.Earliest {
			sec.Earliest = r.Date
		}
		if r.Date > sec.Latest {
			sec.Latest = r.Date
		}
	}
	sec.Players = len(players)
	sec.Weeks = len(weeks)
	return sec
}

func summarizeTournaments(tournaments []model.Tournament, size int64) *TournSummary {
	sec := &TournSummary{
		Count:  len(tournaments),
		ByType: make(map[string]int),
		Bytes:  size,
	}
	for _, t := range tournaments {
		sec.ByType[t.Type]++
		if sec.FirstYear == 0 || t.Year < sec.FirstYear {
			sec.FirstYear = t.Year
		}
		if t.Year > sec.LastYear {
			sec.LastYear = t.Year
		}
	}
	return sec
}
