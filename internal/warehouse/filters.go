package warehouse

import (
	"fmt"
	"strings"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

// Engagement buckets stand in for sentiment labels: the warehouse carries an
// engagement_category column rather than a sentiment classification.
const (
	engagementBucketHigh   = "high"
	engagementBucketMedium = "medium"
	engagementBucketLow    = "low"
)

// searchPredicate is the conjunctive WHERE clause of a message search,
// together with the relevance expression that shares its term placeholders.
type searchPredicate struct {
	where     string
	relevance string
	args      []any
}

// buildSearchPredicate translates a search query into an AND-joined predicate
// with positional placeholders. Every user-supplied value is bound as a
// parameter; only fixed clause templates are concatenated.
func buildSearchPredicate(q *domain.SearchQuery) searchPredicate {
	var args []any

	conds := []string{"message_text IS NOT NULL"}

	termClauses := make([]string, len(q.Terms))
	caseClauses := make([]string, len(q.Terms))

	for i, term := range q.Terms {
		args = append(args, "%"+term+"%")
		ph := fmt.Sprintf("$%d", len(args))
		termClauses[i] = "LOWER(message_text) LIKE " + ph
		caseClauses[i] = "(CASE WHEN LOWER(message_text) LIKE " + ph + " THEN 1 ELSE 0 END)"
	}

	conds = append(conds, "("+strings.Join(termClauses, " OR ")+")")

	if len(q.Channels) > 0 {
		channelClauses := make([]string, len(q.Channels))

		for i, channel := range q.Channels {
			args = append(args, domain.NormalizeChannelName(channel))
			channelClauses[i] = fmt.Sprintf("channel = $%d", len(args))
		}

		conds = append(conds, "("+strings.Join(channelClauses, " OR ")+")")
	}

	if q.DateFrom != nil {
		args = append(args, *q.DateFrom)
		conds = append(conds, fmt.Sprintf("message_date >= $%d", len(args)))
	}

	if q.DateTo != nil {
		args = append(args, *q.DateTo)
		conds = append(conds, fmt.Sprintf("message_date <= $%d", len(args)))
	}

	if q.HasMedia != nil {
		args = append(args, *q.HasMedia)
		conds = append(conds, fmt.Sprintf("has_media = $%d", len(args)))
	}

	if q.Sentiment != "" {
		args = append(args, engagementBucket(q.Sentiment))
		conds = append(conds, fmt.Sprintf("engagement_category = $%d", len(args)))
	}

	relevance := fmt.Sprintf("(%s) * 1.0 / %d", strings.Join(caseClauses, " + "), len(q.Terms))

	return searchPredicate{
		where:     strings.Join(conds, " AND "),
		relevance: relevance,
		args:      args,
	}
}

// engagementBucket maps a sentiment label onto the engagement category used
// by the warehouse. Anything unrecognized falls back to the medium bucket.
func engagementBucket(sentiment string) string {
	switch sentiment {
	case "positive":
		return engagementBucketHigh
	case "negative":
		return engagementBucketLow
	default:
		return engagementBucketMedium
	}
}
