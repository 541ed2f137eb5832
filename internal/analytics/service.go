// Package analytics implements the analytical operations served by the API:
// product mention reports, channel activity and comparison, relevance-scored
// message search, daily trend classification and warehouse health.
//
// The package pulls raw aggregates from the warehouse and derives all
// presentation values (ratios, composite scores, trend directions and
// pagination) in Go, so the business rules stay independently testable.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
	errs "github.com/karasolutions/telegram-medical-analytics/internal/core/errors"
	"github.com/karasolutions/telegram-medical-analytics/internal/observability"
	"github.com/karasolutions/telegram-medical-analytics/internal/warehouse"
)

// Operation names used for metrics labels.
const (
	opTopProducts       = "top_products"
	opChannelActivity   = "channel_activity"
	opSearchMessages    = "search_messages"
	opChannelComparison = "channel_comparison"
	opDailyTrends       = "daily_trends"
	opDetectionSummary  = "detection_summary"
	opHealth            = "health"
	opDataOverview      = "data_overview"
	opListChannels      = "list_channels"
)

const (
	topPostingHoursLimit    = 5
	topDetectedObjectsLimit = 10

	// engagementScoreScale converts raw engagement scores into the
	// sentiment band reported to clients.
	engagementScoreScale = 1000
)

// Weights of the composite channel engagement score.
const (
	weightEngagement = 0.3
	weightMedia      = 0.3
	weightFrequency  = 0.2
	weightMedical    = 0.2
)

// postingFrequencyScale dampens the daily posting rate inside the composite
// score so prolific channels do not dominate on volume alone.
const postingFrequencyScale = 10

// Store is the warehouse access needed by the engine.
type Store interface {
	TopProducts(ctx context.Context, since time.Time, limit int) ([]domain.ProductRow, error)
	ChannelInfo(ctx context.Context, channel string) (*domain.ChannelInfo, error)
	DailyActivity(ctx context.Context, channel string, since time.Time) ([]domain.DailyActivity, error)
	ChannelSummary(ctx context.Context, channel string, since time.Time) (*domain.ChannelSummaryRow, error)
	TopPostingHours(ctx context.Context, channel string, since time.Time, limit int) ([]int, error)
	SearchMessages(ctx context.Context, q *domain.SearchQuery) ([]domain.MessageMatch, error)
	CountSearchMatches(ctx context.Context, q *domain.SearchQuery) (int, error)
	ChannelComparisonRows(ctx context.Context, since time.Time) ([]domain.ChannelAggregateRow, error)
	DailyTrendRows(ctx context.Context, metric string, since time.Time, channel string) ([]domain.TrendPoint, error)
	DetectionSummary(ctx context.Context, since time.Time) (*domain.DetectionSummaryRow, error)
	TopDetectedObjects(ctx context.Context, since time.Time, limit int) ([]domain.DetectionClassCount, error)
	WarehouseTotals(ctx context.Context) (*domain.WarehouseTotals, error)
	ListChannels(ctx context.Context) ([]string, error)
	MessageDateRange(ctx context.Context) (earliest, latest *time.Time, err error)
}

// SearchParams carries the validated inputs of a message search.
type SearchParams struct {
	Query        string
	Channels     []string
	DateFrom     *time.Time
	DateTo       *time.Time
	HasMedia     *bool
	Sentiment    string
	MinRelevance float64
	Page         int
	PageSize     int
}

// Service runs the analytical operations on top of a warehouse store.
type Service struct {
	store  Store
	logger *zerolog.Logger
	now    func() time.Time
}

// New creates an analytics service.
func New(store Store, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// TopProducts reports the most mentioned medical products in the window.
func (s *Service) TopProducts(ctx context.Context, limit, daysBack int) ([]domain.ProductMention, domain.QueryMetadata, error) {
	start := s.now()

	rows, err := s.store.TopProducts(ctx, s.cutoff(daysBack), limit)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	caser := cases.Title(language.English)

	products := make([]domain.ProductMention, len(rows))

	for i, row := range rows {
		products[i] = domain.ProductMention{
			ProductName:   caser.String(row.Name),
			MentionCount:  row.MentionCount,
			Channels:      row.Channels,
			AvgSentiment:  normalizeSentiment(row.AvgEngagement),
			PriceMentions: row.PriceMentions,
			LastMentioned: row.LastMentioned,
		}
	}

	return products, s.metadata(opTopProducts, start, len(rows)), nil
}

// ChannelActivity reports posting activity and summary statistics for one
// channel. The channel name is accepted with or without the "@" prefix.
func (s *Service) ChannelActivity(ctx context.Context, channel string, daysBack int) (*domain.ChannelActivity, domain.QueryMetadata, error) {
	start := s.now()

	name := domain.NormalizeChannelName(channel)
	since := s.cutoff(daysBack)

	info, err := s.store.ChannelInfo(ctx, name)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	daily, err := s.store.DailyActivity(ctx, name, since)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	for i := range daily {
		if daily[i].AvgSentiment != nil {
			rounded := round3(*daily[i].AvgSentiment)
			daily[i].AvgSentiment = &rounded
		}
	}

	summaryRow, err := s.store.ChannelSummary(ctx, name, since)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	hours, err := s.store.TopPostingHours(ctx, name, since, topPostingHoursLimit)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	activity := &domain.ChannelActivity{
		Info:            *info,
		Daily:           daily,
		Summary:         summarizeChannel(summaryRow),
		TopPostingHours: hours,
	}

	return activity, s.metadata(opChannelActivity, start, len(daily)), nil
}

// SearchMessages runs a relevance-scored text search with optional filters.
// A query with no scoreable terms returns an empty result without touching
// the warehouse.
func (s *Service) SearchMessages(ctx context.Context, p SearchParams) (*domain.SearchResult, domain.QueryMetadata, error) {
	start := s.now()

	terms := tokenizeQuery(p.Query)

	filters := domain.SearchFilters{
		Channels:     p.Channels,
		DateFrom:     p.DateFrom,
		DateTo:       p.DateTo,
		HasMedia:     p.HasMedia,
		Sentiment:    p.Sentiment,
		MinRelevance: p.MinRelevance,
	}

	if len(terms) == 0 {
		result := &domain.SearchResult{
			Query:      p.Query,
			Matches:    []domain.MessageMatch{},
			Filters:    filters,
			Pagination: paginate(p.Page, p.PageSize, 0),
		}

		return result, s.metadata(opSearchMessages, start, 0), nil
	}

	q := &domain.SearchQuery{
		Terms:        terms,
		Channels:     p.Channels,
		DateFrom:     p.DateFrom,
		DateTo:       p.DateTo,
		HasMedia:     p.HasMedia,
		Sentiment:    p.Sentiment,
		MinRelevance: p.MinRelevance,
		Limit:        p.PageSize,
		Offset:       pageOffset(p.Page, p.PageSize),
	}

	matches, err := s.store.SearchMessages(ctx, q)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	total, err := s.store.CountSearchMatches(ctx, q)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	for i := range matches {
		matches[i].RelevanceScore = round3(matches[i].RelevanceScore)
		matches[i].MatchedTerms = matchedTerms(matches[i].MessageText, terms)
	}

	if matches == nil {
		matches = []domain.MessageMatch{}
	}

	result := &domain.SearchResult{
		Query:        p.Query,
		Matches:      matches,
		TotalMatches: total,
		Filters:      filters,
		Pagination:   paginate(p.Page, p.PageSize, total),
	}

	return result, s.metadata(opSearchMessages, start, len(matches)), nil
}

// ChannelComparison ranks all channels by a composite engagement score.
// Returns ErrNoChannelData when the window holds no messages at all.
func (s *Service) ChannelComparison(ctx context.Context, daysBack int) ([]domain.ChannelMetrics, domain.QueryMetadata, error) {
	start := s.now()

	rows, err := s.store.ChannelComparisonRows(ctx, s.cutoff(daysBack))
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	if len(rows) == 0 {
		return nil, domain.QueryMetadata{}, errs.ErrNoChannelData
	}

	metrics := make([]domain.ChannelMetrics, len(rows))

	for i, row := range rows {
		metrics[i] = compareChannel(row, daysBack)
	}

	sort.Slice(metrics, func(i, j int) bool {
		return metrics[i].EngagementScore > metrics[j].EngagementScore
	})

	return metrics, s.metadata(opChannelComparison, start, len(rows)), nil
}

// DailyTrends builds and classifies the daily series of one metric.
func (s *Service) DailyTrends(ctx context.Context, metric string, daysBack int, channel string) (*domain.TrendAnalysis, domain.QueryMetadata, error) {
	start := s.now()

	points, err := s.store.DailyTrendRows(ctx, metric, s.cutoff(daysBack), channel)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	for i := range points {
		points[i].Value = round3(points[i].Value)
		points[i].Label = fmt.Sprintf("%s_%s", metric, points[i].Date.Format("2006-01-02"))
	}

	direction, growthRate := classifyTrend(points)

	period := fmt.Sprintf("Last %d days", daysBack)
	if channel != "" {
		period += " for " + channel
	}

	analysis := &domain.TrendAnalysis{
		TrendType:  metric,
		Period:     period,
		DataPoints: points,
		Direction:  direction,
	}

	if growthRate != 0 {
		analysis.GrowthRate = &growthRate
	}

	return analysis, s.metadata(opDailyTrends, start, len(points)), nil
}

// DetectionSummary reports the window's object detection statistics.
func (s *Service) DetectionSummary(ctx context.Context, daysBack int) (*domain.DetectionSummary, domain.QueryMetadata, error) {
	start := s.now()

	since := s.cutoff(daysBack)

	row, err := s.store.DetectionSummary(ctx, since)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	objects, err := s.store.TopDetectedObjects(ctx, since, topDetectedObjectsLimit)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	for i := range objects {
		objects[i].AvgConfidence = round3(objects[i].AvgConfidence)
	}

	summary := &domain.DetectionSummary{
		TotalDetections:     row.TotalDetections,
		UniqueObjects:       row.UniqueObjects,
		MedicalObjects:      row.MedicalObjects,
		AvgConfidence:       round3(row.AvgConfidence),
		PersonDetections:    row.PersonDetections,
		EquipmentDetections: row.EquipmentDetections,
		HygieneDetections:   row.HygieneDetections,
		TopObjects:          objects,
	}

	return summary, s.metadata(opDetectionSummary, start, 1+len(objects)), nil
}

// Health reports warehouse connectivity and data freshness. A failing
// warehouse degrades the status instead of propagating the error, so the
// endpoint always answers.
func (s *Service) Health(ctx context.Context) (*domain.HealthStatus, domain.QueryMetadata) {
	start := s.now()

	totals, err := s.store.WarehouseTotals(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("health check failed")

		status := &domain.HealthStatus{
			DatabaseStatus: domain.StatusError,
			LastUpdate:     s.now(),
		}

		return status, s.metadata(opHealth, start, 0)
	}

	status := &domain.HealthStatus{
		DatabaseStatus:  domain.StatusHealthy,
		TotalMessages:   totals.TotalMessages,
		TotalDetections: totals.TotalDetections,
		LastUpdate:      lastUpdate(totals, s.now()),
	}

	return status, s.metadata(opHealth, start, 1)
}

// DataOverview reports warehouse coverage for the stats endpoint.
func (s *Service) DataOverview(ctx context.Context) (*domain.DataOverview, domain.QueryMetadata, error) {
	start := s.now()

	totals, err := s.store.WarehouseTotals(ctx)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	earliest, latest, err := s.store.MessageDateRange(ctx)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	overview := &domain.DataOverview{
		TotalMessages:   totals.TotalMessages,
		TotalDetections: totals.TotalDetections,
		EarliestDate:    earliest,
		LatestDate:      latest,
		LastUpdate:      s.now(),
	}

	return overview, s.metadata(opDataOverview, start, 1), nil
}

// ListChannels returns all channels present in the warehouse.
func (s *Service) ListChannels(ctx context.Context) ([]string, domain.QueryMetadata, error) {
	start := s.now()

	channels, err := s.store.ListChannels(ctx)
	if err != nil {
		return nil, domain.QueryMetadata{}, err
	}

	return channels, s.metadata(opListChannels, start, len(channels)), nil
}

// TrendMetrics lists the metric names accepted by DailyTrends.
func (s *Service) TrendMetrics() []string {
	return warehouse.TrendMetrics()
}

func (s *Service) cutoff(daysBack int) time.Time {
	return s.now().AddDate(0, 0, -daysBack)
}

// metadata finalizes the query metadata of one operation and records it.
func (s *Service) metadata(op string, start time.Time, rowsProcessed int) domain.QueryMetadata {
	meta := queryMetadata(s.now().Sub(start), rowsProcessed)

	observability.OperationRowsProcessed.WithLabelValues(op).Observe(float64(rowsProcessed))
	observability.OperationComplexity.WithLabelValues(op, meta.QueryComplexity).Inc()

	return meta
}

// normalizeSentiment maps a raw engagement average into the [-1, 1] sentiment
// band. Absent or zero averages carry no signal and stay unset.
func normalizeSentiment(avgEngagement *float64) *float64 {
	if avgEngagement == nil || *avgEngagement == 0 {
		return nil
	}

	v := round3(*avgEngagement / engagementScoreScale)

	if v > 1 {
		v = 1
	}

	if v < -1 {
		v = -1
	}

	return &v
}

// summarizeChannel derives the window summary from raw counters. Denominators
// are floored at one so an empty window yields zeros instead of dividing by
// zero.
func summarizeChannel(row *domain.ChannelSummaryRow) domain.ChannelSummary {
	messageDenominator := max(row.TotalMessages, 1)
	dayDenominator := max(row.ActiveDays, 1)

	return domain.ChannelSummary{
		TotalMessages:    row.TotalMessages,
		TotalMedia:       row.TotalMedia,
		MediaPercentage:  round2(float64(row.TotalMedia) / float64(messageDenominator) * 100),
		AvgMessageLength: round2(row.AvgMessageLength),
		AvgSentiment:     round3(row.AvgSentiment),
		MedicalMessages:  row.MedicalMessages,
		PriceMessages:    row.PriceMessages,
		ActiveDays:       row.ActiveDays,
		AvgDailyPosts:    round2(float64(row.TotalMessages) / float64(dayDenominator)),
	}
}

// compareChannel derives one channel's comparison record, including the
// weighted composite engagement score.
func compareChannel(row domain.ChannelAggregateRow, daysBack int) domain.ChannelMetrics {
	total := float64(row.TotalMessages)

	mediaRatio := float64(row.MediaCount) / total
	medicalRatio := float64(row.MedicalCount) / total
	postingFrequency := total / float64(daysBack) / postingFrequencyScale

	score := row.AvgEngagement*weightEngagement +
		mediaRatio*weightMedia +
		postingFrequency*weightFrequency +
		medicalRatio*weightMedical

	return domain.ChannelMetrics{
		ChannelName:         row.ChannelName,
		TotalMessages:       row.TotalMessages,
		AvgDailyPosts:       round2(total / float64(daysBack)),
		MediaPercentage:     round2(mediaRatio * 100),
		AvgSentiment:        round3(row.AvgEngagement),
		MedicalContentRatio: round3(medicalRatio),
		EngagementScore:     round3(score),
	}
}

// lastUpdate picks the most recent of the two fact-table watermarks.
func lastUpdate(totals *domain.WarehouseTotals, fallback time.Time) time.Time {
	var last time.Time

	if totals.LastMessageDate != nil {
		last = *totals.LastMessageDate
	}

	if totals.LastDetectionDate != nil && totals.LastDetectionDate.After(last) {
		last = *totals.LastDetectionDate
	}

	if last.IsZero() {
		return fallback
	}

	return last
}
