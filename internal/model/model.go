package model

import "fmt"

// RankingType selects the singles or doubles ranking table.
type RankingType string

const (
	RankingSingles RankingType = "singles"
	RankingDoubles RankingType = "doubles"
)

// Valid reports whether t is a known ranking type.
func (t RankingType) Valid() bool {
	return t == RankingSingles || t == RankingDoubles
}

// Dataset returns the dataset name holding this ranking table.
func (t RankingType) Dataset() string {
	return string(t) + "_rankings"
}

// Dataset names for the non-ranking tables.
const (
	DatasetPlayers     = "players"
	DatasetTournaments = "tournaments"
)

// TournamentTypes lists the valid results-archive categories:
// grand slams, tour-level, challengers, futures.
var TournamentTypes = []string{"gs", "atp", "ch", "fu"}

// ValidTournamentType reports whether t is a known tournament type.
func ValidTournamentType(t string) bool {
	for _, v := range TournamentTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Ranking is one player's position in one weekly ranking snapshot.
// Identity is (player_id, date, type); a re-scrape of the same week
// replaces the whole row.
type Ranking struct {
	Rank              *int64 `parquet:"rank,optional" json:"rank"`
	PlayerID          string `parquet:"player_id" json:"player_id"`
	Points            *int64 `parquet:"points,optional" json:"points"`
	PointsMove        *int64 `parquet:"points_move,optional" json:"points_move"`
	TournamentsPlayed *int64 `parquet:"tournaments_played,optional" json:"tournaments_played"`
	Dropping          *int64 `parquet:"dropping,optional" json:"dropping"`
	NextBest          *int64 `parquet:"next_best,optional" json:"next_best"`
	Date              string `parquet:"date" json:"date"`
	Type              string `parquet:"type" json:"type"`
}

// Key returns the dedup key for a ranking row.
func (r Ranking) Key() string {
	return fmt.Sprintf("%s|%s|%s", r.PlayerID, r.Date, r.Type)
}

// Player is one player plus an incrementally filled bio bundle. The
// name, once known, is never replaced by an empty value; bio fields
// only move from nil to a value.
type Player struct {
	PlayerID   string  `parquet:"player_id" json:"player_id"`
	Name       string  `parquet:"player_name,optional" json:"player_name"`
	Birthdate  *string `parquet:"birthdate,optional" json:"birthdate"`
	WeightKG   *int64  `parquet:"weight_kg,optional" json:"weight_kg"`
	HeightCM   *int64  `parquet:"height_cm,optional" json:"height_cm"`
	TurnedPro  *int64  `parquet:"turned_pro,optional" json:"turned_pro"`
	Country    *string `parquet:"country,optional" json:"country"`
	Birthplace *string `parquet:"birthplace,optional" json:"birthplace"`
	Handedness *string `parquet:"handedness,optional" json:"handedness"`
	Backhand   *string `parquet:"backhand,optional" json:"backhand"`
	Coach      *string `parquet:"coach,optional" json:"coach"`
}

// Key returns the dedup key for a player row.
func (p Player) Key() string { return p.PlayerID }

// MissingBio reports whether any of the bio fields that drive the
// enrichment queue is still unknown.
func (p Player) MissingBio() bool {
	return p.Birthdate == nil || p.WeightKG == nil || p.HeightCM == nil ||
		p.Country == nil || p.Handedness == nil
}

// Tournament is one completed event from the results archive. Events
// with no declared winner are never recorded. Doubles winners are kept
// as comma-joined id and name lists, order preserved.
type Tournament struct {
	Year               int64   `parquet:"year" json:"year"`
	Type               string  `parquet:"tournament_type" json:"tournament_type"`
	Name               *string `parquet:"tournament_name,optional" json:"tournament_name"`
	Venue              *string `parquet:"venue,optional" json:"venue"`
	CountryCode        *string `parquet:"country_code,optional" json:"country_code"`
	StartDate          *string `parquet:"start_date,optional" json:"start_date"`
	EndDate            *string `parquet:"end_date,optional" json:"end_date"`
	SinglesWinnerID    *string `parquet:"singles_winner_id,optional" json:"singles_winner_id"`
	SinglesWinnerName  *string `parquet:"singles_winner_name,optional" json:"singles_winner_name"`
	DoublesWinnerIDs   *string `parquet:"doubles_winner_ids,optional" json:"doubles_winner_ids"`
	DoublesWinnerNames *string `parquet:"doubles_winner_names,optional" json:"doubles_winner_names"`
}

// Key returns the dedup key for a tournament row.
func (t Tournament) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", t.Year, t.Type, deref(t.Name), deref(t.StartDate))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 { return &v }
