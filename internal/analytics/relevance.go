package analytics

import (
	"strings"
	"unicode/utf8"
)

// minTermLength is the exclusive lower bound on search token length. Shorter
// tokens match too broadly to carry relevance signal.
const minTermLength = 2

// tokenizeQuery splits a raw query on whitespace, lowercases the tokens and
// drops the ones too short to score. The result may be empty.
func tokenizeQuery(query string) []string {
	fields := strings.Fields(query)

	terms := make([]string, 0, len(fields))

	for _, field := range fields {
		if utf8.RuneCountInString(field) <= minTermLength {
			continue
		}

		terms = append(terms, strings.ToLower(field))
	}

	return terms
}

// matchedTerms reports which query terms occur in the stored message text.
// The text arrives already truncated to the preview length, so a term that
// scored against the full message may be absent here.
func matchedTerms(text string, terms []string) []string {
	lowered := strings.ToLower(text)

	matched := make([]string, 0, len(terms))

	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched = append(matched, term)
		}
	}

	return matched
}
