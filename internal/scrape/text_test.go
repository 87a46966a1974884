package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCount(t *testing.T) {
	tests := []struct {
		in   string
		want *int64
	}{
		{"1,234", ptr(1234)},
		{"11,280", ptr(11280)},
		{"-", nil},
		{"", nil},
		{"  ", nil},
		{"+150", ptr(150)},
		{"-30", ptr(-30)},
		{"abc", nil},
		{"42", ptr(42)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseCount(tt.in)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestExtractPlayerID(t *testing.T) {
	assert.Equal(t, "d643", ExtractPlayerID("/en/players/novak-djokovic/d643/overview"))
	assert.Equal(t, "", ExtractPlayerID("/en/scores/results-archive"))
	assert.Equal(t, "", ExtractPlayerID(""))
}

func ptr(v int64) *int64 { return &v }
