package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
)

const defaultSuccessMessage = "Request completed successfully"

type baseResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func okBase() baseResponse {
	return baseResponse{
		Success:   true,
		Message:   defaultSuccessMessage,
		Timestamp: time.Now().UTC(),
	}
}

type errorResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type queryMetadataPayload struct {
	ExecutionTimeMS float64 `json:"execution_time_ms"`
	RowsProcessed   int     `json:"rows_processed"`
	CacheHit        bool    `json:"cache_hit"`
	QueryComplexity string  `json:"query_complexity"`
}

func metadataPayload(m domain.QueryMetadata) queryMetadataPayload {
	return queryMetadataPayload(m)
}

type productMentionPayload struct {
	ProductName   string    `json:"product_name"`
	MentionCount  int       `json:"mention_count"`
	Channels      []string  `json:"channels"`
	AvgSentiment  *float64  `json:"avg_sentiment"`
	PriceMentions int       `json:"price_mentions"`
	LastMentioned time.Time `json:"last_mentioned"`
}

type topProductsResponse struct {
	baseResponse
	Products       []productMentionPayload `json:"products"`
	TotalProducts  int                     `json:"total_products"`
	AnalysisPeriod string                  `json:"analysis_period"`
	Metadata       queryMetadataPayload    `json:"metadata"`
}

type channelInfoPayload struct {
	ChannelName     string `json:"channel_name"`
	DisplayName     string `json:"display_name"`
	Category        string `json:"category"`
	IsMedical       bool   `json:"is_medical"`
	SubscriberCount *int   `json:"subscriber_count"`
	TotalMessages   int    `json:"total_messages"`
}

type dailyActivityPayload struct {
	Date         time.Time `json:"date"`
	MessageCount int       `json:"message_count"`
	MediaCount   int       `json:"media_count"`
	AvgSentiment *float64  `json:"avg_sentiment"`
	PeakHour     *int      `json:"peak_hour"`
}

type channelSummaryPayload struct {
	TotalMessages    int     `json:"total_messages"`
	TotalMedia       int     `json:"total_media"`
	MediaPercentage  float64 `json:"media_percentage"`
	AvgMessageLength float64 `json:"avg_message_length"`
	AvgSentiment     float64 `json:"avg_sentiment"`
	MedicalMessages  int     `json:"medical_messages"`
	PriceMessages    int     `json:"price_messages"`
	ActiveDays       int     `json:"active_days"`
	AvgDailyPosts    float64 `json:"avg_daily_posts"`
}

type channelActivityResponse struct {
	baseResponse
	ChannelInfo     channelInfoPayload     `json:"channel_info"`
	DailyActivity   []dailyActivityPayload `json:"daily_activity"`
	SummaryStats    channelSummaryPayload  `json:"summary_stats"`
	TopPostingHours []int                  `json:"top_posting_hours"`
	Metadata        queryMetadataPayload   `json:"metadata"`
}

type messageMatchPayload struct {
	MessageID      int64     `json:"message_id"`
	Channel        string    `json:"channel"`
	MessageText    string    `json:"message_text"`
	MessageDate    time.Time `json:"message_date"`
	Sentiment      string    `json:"sentiment"`
	HasMedia       bool      `json:"has_media"`
	RelevanceScore float64   `json:"relevance_score"`
	MatchedTerms   []string  `json:"matched_terms"`
}

type searchFiltersPayload struct {
	Channels     []string   `json:"channels"`
	DateFrom     *time.Time `json:"date_from"`
	DateTo       *time.Time `json:"date_to"`
	HasMedia     *bool      `json:"has_media"`
	Sentiment    *string    `json:"sentiment"`
	MinRelevance float64    `json:"min_relevance"`
}

type paginationPayload struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

type messageSearchResponse struct {
	baseResponse
	Query         string                `json:"query"`
	Matches       []messageMatchPayload `json:"matches"`
	TotalMatches  int                   `json:"total_matches"`
	SearchFilters searchFiltersPayload  `json:"search_filters"`
	Pagination    paginationPayload     `json:"pagination"`
	Metadata      queryMetadataPayload  `json:"metadata"`
}

type channelMetricsPayload struct {
	ChannelName         string  `json:"channel_name"`
	TotalMessages       int     `json:"total_messages"`
	AvgDailyPosts       float64 `json:"avg_daily_posts"`
	MediaPercentage     float64 `json:"media_percentage"`
	AvgSentiment        float64 `json:"avg_sentiment"`
	MedicalContentRatio float64 `json:"medical_content_ratio"`
	EngagementScore     float64 `json:"engagement_score"`
}

type channelComparisonResponse struct {
	baseResponse
	Channels         []channelMetricsPayload `json:"channels"`
	ComparisonPeriod string                  `json:"comparison_period"`
	TopPerformer     string                  `json:"top_performer"`
	MetricsCompared  []string                `json:"metrics_compared"`
	Metadata         queryMetadataPayload    `json:"metadata"`
}

type trendPointPayload struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
	Label string    `json:"label"`
}

type trendAnalysisPayload struct {
	TrendType      string              `json:"trend_type"`
	Period         string              `json:"period"`
	DataPoints     []trendPointPayload `json:"data_points"`
	TrendDirection string              `json:"trend_direction"`
	GrowthRate     *float64            `json:"growth_rate"`
}

type trendsResponse struct {
	baseResponse
	Data     trendAnalysisPayload `json:"data"`
	Metadata queryMetadataPayload `json:"metadata"`
}

type detectedObjectPayload struct {
	ClassName     string  `json:"class_name"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

type detectionSummaryPayload struct {
	TotalDetections     int                     `json:"total_detections"`
	UniqueObjects       int                     `json:"unique_objects"`
	MedicalObjects      int                     `json:"medical_objects"`
	AvgConfidence       float64                 `json:"avg_confidence"`
	PersonDetections    int                     `json:"person_detections"`
	EquipmentDetections int                     `json:"equipment_detections"`
	HygieneDetections   int                     `json:"hygiene_detections"`
	TopObjects          []detectedObjectPayload `json:"top_objects"`
}

type detectionSummaryResponse struct {
	baseResponse
	Data        detectionSummaryPayload `json:"data"`
	Metadata    queryMetadataPayload    `json:"metadata"`
	Suggestions []string                `json:"suggestions"`
}

// detectionSuggestions are the fixed follow-up hints returned with every
// detection summary.
var detectionSuggestions = []string{
	"Try filtering by specific medical categories",
	"Compare detection confidence across channels",
	"Analyze medical equipment vs hygiene products",
}

type healthResponse struct {
	baseResponse
	DatabaseStatus  string    `json:"database_status"`
	TotalMessages   int64     `json:"total_messages"`
	TotalDetections int64     `json:"total_detections"`
	LastUpdate      time.Time `json:"last_update"`
}

type apiInfoResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Endpoints   []string `json:"endpoints"`
}

type dateRangePayload struct {
	EarliestDate *time.Time `json:"earliest_date"`
	LatestDate   *time.Time `json:"latest_date"`
}

type statsResponse struct {
	TotalMessages      int64            `json:"total_messages"`
	TotalDetections    int64            `json:"total_detections"`
	DataRange          dateRangePayload `json:"data_range"`
	LastUpdate         time.Time        `json:"last_update"`
	APIVersion         string           `json:"api_version"`
	EndpointsAvailable int              `json:"endpoints_available"`
}

func productPayloads(products []domain.ProductMention) []productMentionPayload {
	out := make([]productMentionPayload, len(products))

	for i, p := range products {
		out[i] = productMentionPayload{
			ProductName:   p.ProductName,
			MentionCount:  p.MentionCount,
			Channels:      p.Channels,
			AvgSentiment:  p.AvgSentiment,
			PriceMentions: p.PriceMentions,
			LastMentioned: p.LastMentioned,
		}
	}

	return out
}

func channelActivityPayload(a *domain.ChannelActivity, meta domain.QueryMetadata) channelActivityResponse {
	daily := make([]dailyActivityPayload, len(a.Daily))

	for i, d := range a.Daily {
		daily[i] = dailyActivityPayload{
			Date:         d.Date,
			MessageCount: d.MessageCount,
			MediaCount:   d.MediaCount,
			AvgSentiment: d.AvgSentiment,
			PeakHour:     d.PeakHour,
		}
	}

	hours := a.TopPostingHours
	if hours == nil {
		hours = []int{}
	}

	return channelActivityResponse{
		baseResponse: okBase(),
		ChannelInfo: channelInfoPayload{
			ChannelName:     a.Info.ChannelName,
			DisplayName:     a.Info.DisplayName,
			Category:        a.Info.Category,
			IsMedical:       a.Info.IsMedical,
			SubscriberCount: a.Info.SubscriberCount,
			TotalMessages:   a.Info.TotalMessages,
		},
		DailyActivity:   daily,
		SummaryStats:    channelSummaryPayload(a.Summary),
		TopPostingHours: hours,
		Metadata:        metadataPayload(meta),
	}
}

func searchPayload(r *domain.SearchResult, meta domain.QueryMetadata) messageSearchResponse {
	matches := make([]messageMatchPayload, len(r.Matches))

	for i, m := range r.Matches {
		terms := m.MatchedTerms
		if terms == nil {
			terms = []string{}
		}

		matches[i] = messageMatchPayload{
			MessageID:      m.MessageID,
			Channel:        m.Channel,
			MessageText:    m.MessageText,
			MessageDate:    m.MessageDate,
			Sentiment:      m.Sentiment,
			HasMedia:       m.HasMedia,
			RelevanceScore: m.RelevanceScore,
			MatchedTerms:   terms,
		}
	}

	filters := searchFiltersPayload{
		Channels:     r.Filters.Channels,
		DateFrom:     r.Filters.DateFrom,
		DateTo:       r.Filters.DateTo,
		HasMedia:     r.Filters.HasMedia,
		MinRelevance: r.Filters.MinRelevance,
	}

	if r.Filters.Sentiment != "" {
		filters.Sentiment = &r.Filters.Sentiment
	}

	return messageSearchResponse{
		baseResponse:  okBase(),
		Query:         r.Query,
		Matches:       matches,
		TotalMatches:  r.TotalMatches,
		SearchFilters: filters,
		Pagination:    paginationPayload(r.Pagination),
		Metadata:      metadataPayload(meta),
	}
}

func comparisonPayload(metrics []domain.ChannelMetrics, daysBack int, meta domain.QueryMetadata) channelComparisonResponse {
	channels := make([]channelMetricsPayload, len(metrics))

	for i, m := range metrics {
		channels[i] = channelMetricsPayload(m)
	}

	return channelComparisonResponse{
		baseResponse:     okBase(),
		Channels:         channels,
		ComparisonPeriod: formatWindow(daysBack),
		TopPerformer:     metrics[0].ChannelName,
		MetricsCompared: []string{
			"total_messages", "avg_daily_posts", "media_percentage",
			"avg_sentiment", "medical_content_ratio", "engagement_score",
		},
		Metadata: metadataPayload(meta),
	}
}

func trendsPayload(a *domain.TrendAnalysis, meta domain.QueryMetadata) trendsResponse {
	points := make([]trendPointPayload, len(a.DataPoints))

	for i, p := range a.DataPoints {
		points[i] = trendPointPayload(p)
	}

	return trendsResponse{
		baseResponse: okBase(),
		Data: trendAnalysisPayload{
			TrendType:      a.TrendType,
			Period:         a.Period,
			DataPoints:     points,
			TrendDirection: a.Direction,
			GrowthRate:     a.GrowthRate,
		},
		Metadata: metadataPayload(meta),
	}
}

func detectionPayload(s *domain.DetectionSummary, meta domain.QueryMetadata) detectionSummaryResponse {
	objects := make([]detectedObjectPayload, len(s.TopObjects))

	for i, o := range s.TopObjects {
		objects[i] = detectedObjectPayload(o)
	}

	return detectionSummaryResponse{
		baseResponse: okBase(),
		Data: detectionSummaryPayload{
			TotalDetections:     s.TotalDetections,
			UniqueObjects:       s.UniqueObjects,
			MedicalObjects:      s.MedicalObjects,
			AvgConfidence:       s.AvgConfidence,
			PersonDetections:    s.PersonDetections,
			EquipmentDetections: s.EquipmentDetections,
			HygieneDetections:   s.HygieneDetections,
			TopObjects:          objects,
		},
		Metadata:    metadataPayload(meta),
		Suggestions: detectionSuggestions,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}
