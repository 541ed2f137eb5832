package analytics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{
			name:     "lowercases and keeps long tokens",
			query:    "Paracetamol PRICE",
			expected: []string{"paracetamol", "price"},
		},
		{
			name:     "drops short tokens",
			query:    "a of paracetamol in 50 mg",
			expected: []string{"paracetamol"},
		},
		{
			name:     "all tokens too short",
			query:    "a b cd",
			expected: []string{},
		},
		{
			name:     "collapses whitespace",
			query:    "  insulin   pen  ",
			expected: []string{"insulin", "pen"},
		},
		{
			name:     "empty query",
			query:    "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenizeQuery(tt.query))
		})
	}
}

func TestMatchedTerms(t *testing.T) {
	terms := []string{"insulin", "price"}

	matched := matchedTerms("Insulin available, PRICE negotiable", terms)
	assert.Equal(t, []string{"insulin", "price"}, matched)

	matched = matchedTerms("no relevant content", terms)
	assert.Empty(t, matched)
}

// A message can score on a term that sits past the stored preview. The match
// list is rebuilt from the truncated text, so such a term is not listed even
// though it contributed to the relevance score.
func TestMatchedTermsTruncatedPreview(t *testing.T) {
	full := strings.Repeat("x", 250) + " insulin"
	preview := full[:200]

	matched := matchedTerms(preview, []string{"insulin"})
	assert.Empty(t, matched)
}
