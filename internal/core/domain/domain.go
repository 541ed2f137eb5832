// Package domain holds the analytical record types shared between the
// warehouse layer, the analytics engine, and the HTTP transport.
//
// All derived entities are computed per request and discarded after
// serialization; nothing here is persisted by this service.
package domain

import (
	"strings"
	"time"
)

// NormalizeChannelName ensures the Telegram "@" marker prefix on a channel
// name. Applying it to an already prefixed name is a no-op.
func NormalizeChannelName(name string) string {
	if strings.HasPrefix(name, "@") {
		return name
	}

	return "@" + name
}

// QueryMetadata describes the execution of one analytical operation and is
// attached to every result.
type QueryMetadata struct {
	ExecutionTimeMS float64
	RowsProcessed   int
	CacheHit        bool
	QueryComplexity string
}

// ProductRow is a raw per-product aggregate as returned by the warehouse,
// before presentation normalization.
type ProductRow struct {
	Name          string
	MentionCount  int
	Channels      []string
	AvgEngagement *float64
	PriceMentions int
	LastMentioned time.Time
}

// ProductMention is a medical-product token matched against the fixed
// vocabulary, with its aggregate mention statistics.
type ProductMention struct {
	ProductName   string
	MentionCount  int
	Channels      []string
	AvgSentiment  *float64
	PriceMentions int
	LastMentioned time.Time
}

// ChannelInfo is the channel dimension row joined with its message total.
type ChannelInfo struct {
	ChannelName     string
	DisplayName     string
	Category        string
	IsMedical       bool
	SubscriberCount *int
	TotalMessages   int
}

// DailyActivity is per-day posting activity for one channel.
type DailyActivity struct {
	Date         time.Time
	MessageCount int
	MediaCount   int
	AvgSentiment *float64
	PeakHour     *int
}

// ChannelSummaryRow holds raw window-wide counters for one channel.
// Ratios and averages derived from it are computed by the analytics engine.
type ChannelSummaryRow struct {
	TotalMessages    int
	TotalMedia       int
	AvgMessageLength float64
	AvgSentiment     float64
	MedicalMessages  int
	PriceMessages    int
	ActiveDays       int
}

// ChannelSummary is the derived window summary for one channel.
type ChannelSummary struct {
	TotalMessages    int
	TotalMedia       int
	MediaPercentage  float64
	AvgMessageLength float64
	AvgSentiment     float64
	MedicalMessages  int
	PriceMessages    int
	ActiveDays       int
	AvgDailyPosts    float64
}

// ChannelActivity bundles everything the channel activity operation returns.
type ChannelActivity struct {
	Info            ChannelInfo
	Daily           []DailyActivity
	Summary         ChannelSummary
	TopPostingHours []int
}

// ChannelAggregateRow holds raw window counters for one channel, used by the
// cross-channel comparison.
type ChannelAggregateRow struct {
	ChannelName   string
	TotalMessages int
	MediaCount    int
	AvgEngagement float64
	MedicalCount  int
}

// ChannelMetrics is the derived per-channel comparison record.
type ChannelMetrics struct {
	ChannelName         string
	TotalMessages       int
	AvgDailyPosts       float64
	MediaPercentage     float64
	AvgSentiment        float64
	MedicalContentRatio float64
	EngagementScore     float64
}

// SearchQuery carries a tokenized full-text query plus its optional filters
// down to the warehouse. Terms are already lowercased and length-filtered.
type SearchQuery struct {
	Terms        []string
	Channels     []string
	DateFrom     *time.Time
	DateTo       *time.Time
	HasMedia     *bool
	Sentiment    string
	MinRelevance float64
	Limit        int
	Offset       int
}

// MessageMatch is a message row annotated with its relevance score and the
// query terms it satisfied.
type MessageMatch struct {
	MessageID      int64
	Channel        string
	MessageText    string
	MessageDate    time.Time
	Sentiment      string
	HasMedia       bool
	RelevanceScore float64
	MatchedTerms   []string
}

// SearchFilters echoes the filters that were applied to a search.
type SearchFilters struct {
	Channels     []string
	DateFrom     *time.Time
	DateTo       *time.Time
	HasMedia     *bool
	Sentiment    string
	MinRelevance float64
}

// Pagination describes the page window of a search result.
type Pagination struct {
	Page        int
	PageSize    int
	TotalItems  int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// SearchResult is the full outcome of one message search.
type SearchResult struct {
	Query        string
	Matches      []MessageMatch
	TotalMatches int
	Filters      SearchFilters
	Pagination   Pagination
}

// TrendPoint is one (date, value) sample of a daily trend series.
type TrendPoint struct {
	Date  time.Time
	Value float64
	Label string
}

// Trend direction labels produced by the classifier.
const (
	TrendIncreasing       = "increasing"
	TrendDecreasing       = "decreasing"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// TrendAnalysis is a classified daily trend series.
type TrendAnalysis struct {
	TrendType  string
	Period     string
	DataPoints []TrendPoint
	Direction  string
	GrowthRate *float64
}

// DetectionClassCount is one object class with its detection frequency.
type DetectionClassCount struct {
	ClassName     string
	Count         int
	AvgConfidence float64
}

// DetectionSummaryRow holds raw detection counters for a window.
type DetectionSummaryRow struct {
	TotalDetections     int
	UniqueObjects       int
	MedicalObjects      int
	AvgConfidence       float64
	PersonDetections    int
	EquipmentDetections int
	HygieneDetections   int
}

// DetectionSummary is the derived object-detection overview.
type DetectionSummary struct {
	TotalDetections     int
	UniqueObjects       int
	MedicalObjects      int
	AvgConfidence       float64
	PersonDetections    int
	EquipmentDetections int
	HygieneDetections   int
	TopObjects          []DetectionClassCount
}

// WarehouseTotals are the global fact-table counters used by health and stats.
type WarehouseTotals struct {
	TotalMessages     int64
	TotalDetections   int64
	LastMessageDate   *time.Time
	LastDetectionDate *time.Time
}

// Health statuses reported by the health check.
const (
	StatusHealthy = "healthy"
	StatusError   = "error"
)

// HealthStatus is the always-answering health report.
type HealthStatus struct {
	DatabaseStatus  string
	TotalMessages   int64
	TotalDetections int64
	LastUpdate      time.Time
}

// DataOverview is the warehouse coverage report served by the stats endpoint.
type DataOverview struct {
	TotalMessages   int64
	TotalDetections int64
	EarliestDate    *time.Time
	LatestDate      *time.Time
	LastUpdate      time.Time
}
