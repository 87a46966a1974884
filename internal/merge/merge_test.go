package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside-data/atp-cli/internal/model"
)

func ranking(playerID, date string, rank int64) model.Ranking {
	return model.Ranking{
		Rank:     model.Int64Ptr(rank),
		PlayerID: playerID,
		Date:     date,
		Type:     "singles",
	}
}

func TestUpsert_LastWriteWins(t *testing.T) {
	existing := []model.Ranking{ranking("a", "2024-01-01", 5)}
	incoming := []model.Ranking{ranking("a", "2024-01-01", 3)}

	out := Upsert(existing, incoming, model.Ranking.Key)
	require.Len(t, out, 1)
	assert.Equal(t, int64(3), *out[0].Rank)
}

func TestUpsert_Idempotent(t *testing.T) {
	existing := []model.Ranking{
		ranking("a", "2024-01-01", 1),
		ranking("b", "2024-01-01", 2),
	}

	once := Upsert(existing, existing, model.Ranking.Key)
	twice := Upsert(once, existing, model.Ranking.Key)
	assert.Equal(t, existing, once)
	assert.Equal(t, once, twice)
}

func TestUpsert_DistinctKeysAllKept(t *testing.T) {
	existing := []model.Ranking{ranking("a", "2024-01-01", 1)}
	incoming := []model.Ranking{
		ranking("a", "2024-01-08", 2),
		ranking("b", "2024-01-08", 3),
	}

	out := Upsert(existing, incoming, model.Ranking.Key)
	assert.Len(t, out, 3)
}

func TestUpsert_DuplicateWithinIncoming(t *testing.T) {
	incoming := []model.Ranking{
		ranking("a", "2024-01-01", 10),
		ranking("a", "2024-01-01", 12),
	}

	out := Upsert(nil, incoming, model.Ranking.Key)
	require.Len(t, out, 1)
	assert.Equal(t, int64(12), *out[0].Rank)
}

func TestPlayers_FillsOnlyNilFields(t *testing.T) {
	usa := "USA"
	existing := []model.Player{{
		PlayerID: "d643",
		Name:     "Novak Djokovic",
		Country:  &usa,
	}}
	incoming := []model.Player{{
		PlayerID: "d643",
		WeightKG: model.Int64Ptr(80),
	}}

	out := Players(existing, incoming)
	require.Len(t, out, 1)
	assert.Equal(t, "USA", *out[0].Country)
	require.NotNil(t, out[0].WeightKG)
	assert.Equal(t, int64(80), *out[0].WeightKG)
}

func TestPlayers_NeverErasesPopulatedField(t *testing.T) {
	rh := "Right-Handed"
	existing := []model.Player{{
		PlayerID:   "s123",
		Name:       "Jannik Sinner",
		Handedness: &rh,
	}}
	// A later scrape that failed to find handedness sends nil.
	incoming := []model.Player{{PlayerID: "s123"}}

	out := Players(existing, incoming)
	require.Len(t, out, 1)
	require.NotNil(t, out[0].Handedness)
	assert.Equal(t, "Right-Handed", *out[0].Handedness)
}

func TestPlayers_NamePreserved(t *testing.T) {
	existing := []model.Player{{PlayerID: "a829", Name: "Carlos Alcaraz"}}
	incoming := []model.Player{{PlayerID: "a829", Name: ""}}

	out := Players(existing, incoming)
	require.Len(t, out, 1)
	assert.Equal(t, "Carlos Alcaraz", out[0].Name)
}

func TestPlayers_NameFilledWhenUnknown(t *testing.T) {
	existing := []model.Player{{PlayerID: "x1"}}
	incoming := []model.Player{{PlayerID: "x1", Name: "New Name"}}

	out := Players(existing, incoming)
	require.Len(t, out, 1)
	assert.Equal(t, "New Name", out[0].Name)
}

func TestPlayers_AppendsUnknownIDs(t *testing.T) {
	existing := []model.Player{{PlayerID: "a", Name: "A"}}
	incoming := []model.Player{{PlayerID: "b", Name: "B"}}

	out := Players(existing, incoming)
	assert.Len(t, out, 2)
}
