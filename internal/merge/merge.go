// Package merge reconciles freshly scraped tables against stored ones.
// The default is whole-row last-write-wins keyed dedup; the player
// table gets a field-level fill so enrichment passes can never erase
// previously known data.
package merge

import "github.com/courtside-data/atp-cli/internal/model"

// Upsert concatenates existing then incoming and deduplicates by key.
// On a key collision the row positioned later wins, so incoming rows
// replace stored ones. Row order follows first appearance of each key.
func Upsert[T any, K comparable](existing, incoming []T, key func(T) K) []T {
	combined := make([]T, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)

	latest := make(map[K]int, len(combined))
	order := make([]K, 0, len(combined))
	for i, row := range combined {
		k := key(row)
		if _, seen := latest[k]; !seen {
			order = append(order, k)
		}
		latest[k] = i
	}

	out := make([]T, 0, len(order))
	for _, k := range order {
		out = append(out, combined[latest[k]])
	}
	return out
}

// Players merges incoming player rows into existing ones field by
// field: a bio column is written only when it is currently nil, and a
// known name is never replaced. Unknown player ids are appended.
func Players(existing, incoming []model.Player) []model.Player {
	out := make([]model.Player, len(existing))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, p := range out {
		index[p.PlayerID] = i
	}

	for _, in := range incoming {
		i, ok := index[in.PlayerID]
		if !ok {
			out = append(out, in)
			index[in.PlayerID] = len(out) - 1
			continue
		}
		out[i] = fillPlayer(out[i], in)
	}
	return out
}

func fillPlayer(dst, src model.Player) model.Player {
	if dst.Name == "" && src.Name != "" {
		dst.Name = src.Name
	}
	fillString(&dst.Birthdate, src.Birthdate)
	fillInt(&dst.WeightKG, src.WeightKG)
	fillInt(&dst.HeightCM, src.HeightCM)
	fillInt(&dst.TurnedPro, src.TurnedPro)
	fillString(&dst.Country, src.Country)
	fillString(&dst.Birthplace, src.Birthplace)
	fillString(&dst.Handedness, src.Handedness)
	fillString(&dst.Backhand, src.Backhand)
	fillString(&dst.Coach, src.Coach)
	return dst
}

func fillString(dst **string, src *string) {
	if *dst == nil && src != nil {
		*dst = src
	}
}

func fillInt(dst **int64, src *int64) {
	if *dst == nil && src != nil {
		*dst = src
	}
}
