package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
	errs "github.com/karasolutions/telegram-medical-analytics/internal/core/errors"
)

const (
	opChannelInfo     = "channel_info"
	opDailyActivity   = "daily_activity"
	opChannelSummary  = "channel_summary"
	opTopPostingHours = "top_posting_hours"
)

// defaultChannelCategory is reported when the dimension row carries no
// category.
const defaultChannelCategory = "medical"

// ChannelInfo loads the channel dimension row joined with its message total.
// Returns ErrChannelNotFound when the channel is absent from the dimension.
func (db *DB) ChannelInfo(ctx context.Context, channel string) (*domain.ChannelInfo, error) {
	sql := fmt.Sprintf(`
SELECT
    c.channel_name,
    c.channel_display_name,
    COALESCE(c.channel_category, '%s') AS category,
    c.is_medical_related,
    c.subscriber_count,
    COUNT(m.message_id) AS total_messages
FROM %s c
LEFT JOIN %s m ON c.channel_key = m.channel_key
WHERE c.channel_name = $1
GROUP BY c.channel_key, c.channel_name, c.channel_display_name, c.channel_category, c.is_medical_related, c.subscriber_count`,
		defaultChannelCategory, db.channelsTable, db.messagesTable)

	args := []any{channel}

	var (
		info        domain.ChannelInfo
		displayName pgtype.Text
		isMedical   pgtype.Bool
		subscribers pgtype.Int8
	)

	err := db.queryRow(ctx, opChannelInfo, sql, args,
		&info.ChannelName,
		&displayName,
		&info.Category,
		&isMedical,
		&subscribers,
		&info.TotalMessages,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", errs.ErrChannelNotFound, channel)
		}

		return nil, err
	}

	info.DisplayName = info.ChannelName
	if displayName.Valid && displayName.String != "" {
		info.DisplayName = displayName.String
	}

	info.IsMedical = isMedical.Bool

	if subscribers.Valid {
		count := int(subscribers.Int64)
		info.SubscriberCount = &count
	}

	return &info, nil
}

// DailyActivity returns per-day posting counters for one channel, oldest
// first. The peak hour is the most frequent posting hour of each day.
func (db *DB) DailyActivity(ctx context.Context, channel string, since time.Time) ([]domain.DailyActivity, error) {
	sql := fmt.Sprintf(`
SELECT
    DATE(message_date) AS activity_date,
    COUNT(*) AS message_count,
    SUM(CASE WHEN has_media THEN 1 ELSE 0 END) AS media_count,
    AVG(engagement_score) AS avg_sentiment,
    MODE() WITHIN GROUP (ORDER BY message_hour) AS peak_hour
FROM %s
WHERE channel = $1 AND message_date >= $2
GROUP BY DATE(message_date)
ORDER BY activity_date`,
		db.messagesTable)

	args := []any{channel, since}

	rows, err := db.query(ctx, opDailyActivity, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var daily []domain.DailyActivity

	for rows.Next() {
		var (
			d         domain.DailyActivity
			sentiment pgtype.Float8
			peakHour  pgtype.Int4
		)

		if err = rows.Scan(&d.Date, &d.MessageCount, &d.MediaCount, &sentiment, &peakHour); err != nil {
			return nil, db.failQuery(opDailyActivity, sql, args, err)
		}

		if sentiment.Valid {
			d.AvgSentiment = &sentiment.Float64
		}

		if peakHour.Valid {
			hour := int(peakHour.Int32)
			d.PeakHour = &hour
		}

		daily = append(daily, d)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opDailyActivity, sql, args, err)
	}

	return daily, nil
}

// ChannelSummary returns raw window-wide counters for one channel. The
// derived ratios are left to the engine.
func (db *DB) ChannelSummary(ctx context.Context, channel string, since time.Time) (*domain.ChannelSummaryRow, error) {
	sql := fmt.Sprintf(`
SELECT
    COUNT(*) AS total_messages,
    SUM(CASE WHEN has_media THEN 1 ELSE 0 END) AS total_media,
    COALESCE(AVG(text_length), 0) AS avg_message_length,
    COALESCE(AVG(engagement_score), 0) AS avg_sentiment,
    SUM(CASE WHEN %s THEN 1 ELSE 0 END) AS medical_messages,
    SUM(CASE WHEN is_pharmacy_content THEN 1 ELSE 0 END) AS price_messages,
    COUNT(DISTINCT DATE(message_date)) AS active_days
FROM %s
WHERE channel = $1 AND message_date >= $2`,
		medicalContentClause, db.messagesTable)

	args := []any{channel, since}

	var (
		row          domain.ChannelSummaryRow
		totalMedia   pgtype.Int8
		medicalCount pgtype.Int8
		priceCount   pgtype.Int8
	)

	err := db.queryRow(ctx, opChannelSummary, sql, args,
		&row.TotalMessages,
		&totalMedia,
		&row.AvgMessageLength,
		&row.AvgSentiment,
		&medicalCount,
		&priceCount,
		&row.ActiveDays,
	)
	if err != nil {
		return nil, err
	}

	row.TotalMedia = int(totalMedia.Int64)
	row.MedicalMessages = int(medicalCount.Int64)
	row.PriceMessages = int(priceCount.Int64)

	return &row, nil
}

// TopPostingHours returns the channel's most active posting hours in the
// window, busiest first.
func (db *DB) TopPostingHours(ctx context.Context, channel string, since time.Time, limit int) ([]int, error) {
	sql := fmt.Sprintf(`
SELECT message_hour
FROM %s
WHERE channel = $1 AND message_date >= $2 AND message_hour IS NOT NULL
GROUP BY message_hour
ORDER BY COUNT(*) DESC
LIMIT $3`,
		db.messagesTable)

	args := []any{channel, since, limit}

	rows, err := db.query(ctx, opTopPostingHours, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []int

	for rows.Next() {
		var hour int

		if err = rows.Scan(&hour); err != nil {
			return nil, db.failQuery(opTopPostingHours, sql, args, err)
		}

		hours = append(hours, hour)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opTopPostingHours, sql, args, err)
	}

	return hours, nil
}
