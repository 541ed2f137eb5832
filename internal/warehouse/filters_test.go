package warehouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

func TestBuildSearchPredicateTermsOnly(t *testing.T) {
	p := buildSearchPredicate(&domain.SearchQuery{Terms: []string{"insulin", "price"}})

	assert.Equal(t,
		"message_text IS NOT NULL AND (LOWER(message_text) LIKE $1 OR LOWER(message_text) LIKE $2)",
		p.where)
	assert.Equal(t,
		"((CASE WHEN LOWER(message_text) LIKE $1 THEN 1 ELSE 0 END) + (CASE WHEN LOWER(message_text) LIKE $2 THEN 1 ELSE 0 END)) * 1.0 / 2",
		p.relevance)
	assert.Equal(t, []any{"%insulin%", "%price%"}, p.args)
}

func TestBuildSearchPredicateAllFilters(t *testing.T) {
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	hasMedia := true

	p := buildSearchPredicate(&domain.SearchQuery{
		Terms:     []string{"insulin"},
		Channels:  []string{"tikvahpharma", "@lobelia4cosmetics"},
		DateFrom:  &from,
		DateTo:    &to,
		HasMedia:  &hasMedia,
		Sentiment: "positive",
	})

	assert.Equal(t,
		"message_text IS NOT NULL"+
			" AND (LOWER(message_text) LIKE $1)"+
			" AND (channel = $2 OR channel = $3)"+
			" AND message_date >= $4"+
			" AND message_date <= $5"+
			" AND has_media = $6"+
			" AND engagement_category = $7",
		p.where)

	assert.Equal(t, []any{"%insulin%", "@tikvahpharma", "@lobelia4cosmetics", from, to, true, "high"}, p.args)
}

func TestEngagementBucket(t *testing.T) {
	assert.Equal(t, "high", engagementBucket("positive"))
	assert.Equal(t, "low", engagementBucket("negative"))
	assert.Equal(t, "medium", engagementBucket("neutral"))
	assert.Equal(t, "medium", engagementBucket("anything"))
}
