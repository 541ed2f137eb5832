package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

// messagePreviewLength caps the message text returned by a search. Relevance
// is still scored against the full text.
const messagePreviewLength = 200

const (
	opSearchMessages     = "search_messages"
	opCountSearchMatches = "count_search_matches"
	opTopProducts        = "top_products"
	opChannelComparison  = "channel_comparison"
	opListChannels       = "list_channels"
	opMessageDateRange   = "message_date_range"
)

// medicalContentClause flags a message as medical when any of the content
// classifiers produced by the ETL pipeline fired.
const medicalContentClause = "(is_pharmacy_content = true OR is_medical_equipment_content = true OR is_healthcare_content = true)"

// SearchMessages runs a relevance-scored text search and returns one result
// page ordered by relevance, then recency.
func (db *DB) SearchMessages(ctx context.Context, q *domain.SearchQuery) ([]domain.MessageMatch, error) {
	p := buildSearchPredicate(q)

	args := append([]any{}, p.args...)

	args = append(args, q.MinRelevance)
	minRelevancePos := len(args)

	args = append(args, q.Limit)
	limitPos := len(args)

	args = append(args, q.Offset)
	offsetPos := len(args)

	sql := fmt.Sprintf(`
WITH search_results AS (
    SELECT
        message_id,
        channel,
        LEFT(message_text, %d) AS message_text,
        message_date,
        engagement_category AS sentiment_label,
        has_media,
        %s AS relevance_score
    FROM %s
    WHERE %s
)
SELECT message_id, channel, message_text, message_date, sentiment_label, has_media, relevance_score
FROM search_results
WHERE relevance_score >= $%d
ORDER BY relevance_score DESC, message_date DESC
LIMIT $%d OFFSET $%d`,
		messagePreviewLength, p.relevance, db.messagesTable, p.where,
		minRelevancePos, limitPos, offsetPos)

	rows, err := db.query(ctx, opSearchMessages, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.MessageMatch

	for rows.Next() {
		var (
			m         domain.MessageMatch
			sentiment pgtype.Text
			hasMedia  pgtype.Bool
		)

		if err = rows.Scan(&m.MessageID, &m.Channel, &m.MessageText, &m.MessageDate, &sentiment, &hasMedia, &m.RelevanceScore); err != nil {
			return nil, db.failQuery(opSearchMessages, sql, args, err)
		}

		m.Sentiment = sentiment.String
		m.HasMedia = hasMedia.Bool

		matches = append(matches, m)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opSearchMessages, sql, args, err)
	}

	return matches, nil
}

// CountSearchMatches counts all messages matching the query at or above the
// relevance floor, ignoring the page window.
func (db *DB) CountSearchMatches(ctx context.Context, q *domain.SearchQuery) (int, error) {
	p := buildSearchPredicate(q)

	args := append([]any{}, p.args...)

	args = append(args, q.MinRelevance)
	minRelevancePos := len(args)

	sql := fmt.Sprintf(`
WITH search_results AS (
    SELECT %s AS relevance_score
    FROM %s
    WHERE %s
)
SELECT COUNT(*) FROM search_results WHERE relevance_score >= $%d`,
		p.relevance, db.messagesTable, p.where, minRelevancePos)

	var total int

	if err := db.queryRow(ctx, opCountSearchMatches, sql, args, &total); err != nil {
		return 0, err
	}

	return total, nil
}

// TopProducts tokenizes recent medical messages in SQL and aggregates the
// tokens that hit the product vocabulary.
func (db *DB) TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.ProductRow, error) {
	sql := fmt.Sprintf(`
WITH product_mentions AS (
    SELECT
        LOWER(TRIM(token)) AS potential_product,
        channel,
        message_date,
        engagement_score,
        1 AS price_mentions
    FROM %s,
         LATERAL unnest(string_to_array(regexp_replace(message_text, '[^a-zA-Z0-9\s]', ' ', 'g'), ' ')) AS token
    WHERE message_date >= $1
      AND message_text IS NOT NULL
      AND LENGTH(message_text) > 10
      AND %s
)
SELECT
    potential_product AS product_name,
    COUNT(*) AS mention_count,
    ARRAY_AGG(DISTINCT channel) AS channels,
    AVG(engagement_score) AS avg_engagement,
    SUM(price_mentions) AS price_mentions,
    MAX(message_date) AS last_mentioned
FROM product_mentions
WHERE potential_product = ANY($2)
  AND LENGTH(potential_product) >= %d
GROUP BY potential_product
HAVING COUNT(*) >= %d
ORDER BY mention_count DESC, last_mentioned DESC
LIMIT $3`,
		db.messagesTable, medicalContentClause, minProductNameLength, minProductMentions)

	args := []any{since, productVocabulary, limit}

	rows, err := db.query(ctx, opTopProducts, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.ProductRow

	for rows.Next() {
		var (
			p          domain.ProductRow
			engagement pgtype.Float8
		)

		if err = rows.Scan(&p.Name, &p.MentionCount, &p.Channels, &engagement, &p.PriceMentions, &p.LastMentioned); err != nil {
			return nil, db.failQuery(opTopProducts, sql, args, err)
		}

		if engagement.Valid {
			p.AvgEngagement = &engagement.Float64
		}

		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opTopProducts, sql, args, err)
	}

	return products, nil
}

// ChannelComparisonRows returns raw per-channel counters for the comparison
// window. Derived ratios and the composite score are computed by the engine.
func (db *DB) ChannelComparisonRows(ctx context.Context, since time.Time) ([]domain.ChannelAggregateRow, error) {
	sql := fmt.Sprintf(`
SELECT
    channel,
    COUNT(*) AS total_messages,
    SUM(CASE WHEN has_media THEN 1 ELSE 0 END) AS media_count,
    COALESCE(AVG(engagement_score), 0) AS avg_engagement,
    SUM(CASE WHEN %s THEN 1 ELSE 0 END) AS medical_count
FROM %s
WHERE message_date >= $1
GROUP BY channel`,
		medicalContentClause, db.messagesTable)

	args := []any{since}

	rows, err := db.query(ctx, opChannelComparison, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []domain.ChannelAggregateRow

	for rows.Next() {
		var a domain.ChannelAggregateRow

		if err = rows.Scan(&a.ChannelName, &a.TotalMessages, &a.MediaCount, &a.AvgEngagement, &a.MedicalCount); err != nil {
			return nil, db.failQuery(opChannelComparison, sql, args, err)
		}

		aggregates = append(aggregates, a)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opChannelComparison, sql, args, err)
	}

	return aggregates, nil
}

// ListChannels returns every channel present in the message fact table.
func (db *DB) ListChannels(ctx context.Context) ([]string, error) {
	sql := fmt.Sprintf(`SELECT DISTINCT channel FROM %s ORDER BY channel`, db.messagesTable)

	rows, err := db.query(ctx, opListChannels, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []string

	for rows.Next() {
		var channel string

		if err = rows.Scan(&channel); err != nil {
			return nil, db.failQuery(opListChannels, sql, nil, err)
		}

		channels = append(channels, channel)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opListChannels, sql, nil, err)
	}

	return channels, nil
}

// MessageDateRange returns the earliest and latest message dates, or nils
// when the fact table is empty.
func (db *DB) MessageDateRange(ctx context.Context) (earliest, latest *time.Time, err error) {
	sql := fmt.Sprintf(`SELECT MIN(message_date), MAX(message_date) FROM %s`, db.messagesTable)

	var first, last pgtype.Timestamptz

	if err = db.queryRow(ctx, opMessageDateRange, sql, nil, &first, &last); err != nil {
		return nil, nil, err
	}

	if first.Valid {
		earliest = &first.Time
	}

	if last.Valid {
		latest = &last.Time
	}

	return earliest, latest, nil
}
