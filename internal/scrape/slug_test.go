package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayerSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Carlos Alcaraz", "carlos-alcaraz"},
		{"Novak Djokovic", "novak-djokovic"},
		{"Félix Auger-Aliassime", "felix-auger-aliassime"},
		{"Alexander Zverev", "alexander-zverev"},
		{"Stan Wawrinka's", "stan-wawrinkas"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PlayerSlug(tt.name), "name %q", tt.name)
	}
}
