package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain json", `["One", "Two"]`, []string{"One", "Two"}},
		{"fenced json", "```json\n[\"One\", \" \", \"Two\"]\n```", []string{"One", "Two"}},
		{"numbered lines", "1. First bio\n2. Second bio\n\n", []string{"First bio", "Second bio"}},
		{"bullets", "- Hiker\n* Cook", []string{"Hiker", "Cook"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSuggestions(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseSuggestions("  \n ")
	assert.Error(t, err)
}

func TestBioPromptIncludesKnownFacts(t *testing.T) {
	p := bioPrompt(BioFacts{FirstName: "Ada", Interests: []string{"Hiking", "Coffee"}})
	assert.Contains(t, p, "Name: Ada")
	assert.Contains(t, p, "Interests: Hiking, Coffee")
	assert.NotContains(t, p, "Hometown:")
	assert.NotContains(t, p, "Work:")
}
