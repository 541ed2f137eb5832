package warehouse

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
	errs "github.com/karasolutions/telegram-medical-analytics/internal/core/errors"
)

const opDailyTrend = "daily_trend"

// trendMetricExpressions is the closed map of trend metrics to their SQL
// aggregate expressions. Metric names are never interpolated from input;
// anything outside this map is rejected before a query is built.
var trendMetricExpressions = map[string]string{
	"message_count":   "COUNT(*)",
	"sentiment":       "AVG(engagement_score)",
	"media_ratio":     "SUM(CASE WHEN has_media THEN 1 ELSE 0 END) * 1.0 / COUNT(*)",
	"medical_content": "SUM(CASE WHEN " + medicalContentClause + " THEN 1 ELSE 0 END) * 1.0 / COUNT(*)",
}

// TrendMetrics lists the supported trend metric names in stable order.
func TrendMetrics() []string {
	metrics := make([]string, 0, len(trendMetricExpressions))
	for name := range trendMetricExpressions {
		metrics = append(metrics, name)
	}

	sort.Strings(metrics)

	return metrics
}

// trendExpression resolves a metric name to its aggregate expression.
func trendExpression(metric string) (string, error) {
	expr, ok := trendMetricExpressions[metric]
	if !ok {
		return "", fmt.Errorf("%w: %s", errs.ErrUnknownMetric, metric)
	}

	return expr, nil
}

// DailyTrendRows returns the daily series of one metric, oldest first,
// optionally scoped to a single channel.
func (db *DB) DailyTrendRows(ctx context.Context, metric string, since time.Time, channel string) ([]domain.TrendPoint, error) {
	expr, err := trendExpression(metric)
	if err != nil {
		return nil, err
	}

	where := "message_date >= $1"
	args := []any{since}

	if channel != "" {
		args = append(args, domain.NormalizeChannelName(channel))
		where += fmt.Sprintf(" AND channel = $%d", len(args))
	}

	sql := fmt.Sprintf(`
SELECT
    DATE(message_date) AS trend_date,
    %s AS metric_value
FROM %s
WHERE %s
GROUP BY DATE(message_date)
ORDER BY trend_date`,
		expr, db.messagesTable, where)

	rows, err := db.query(ctx, opDailyTrend, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []domain.TrendPoint

	for rows.Next() {
		var (
			p     domain.TrendPoint
			value pgtype.Float8
		)

		if err = rows.Scan(&p.Date, &value); err != nil {
			return nil, db.failQuery(opDailyTrend, sql, args, err)
		}

		p.Value = value.Float64

		points = append(points, p)
	}

	if err = rows.Err(); err != nil {
		return nil, db.failQuery(opDailyTrend, sql, args, err)
	}

	return points, nil
}
