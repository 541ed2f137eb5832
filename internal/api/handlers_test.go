package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karasolutions/telegram-medical-analytics/internal/analytics"
	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
	errs "github.com/karasolutions/telegram-medical-analytics/internal/core/errors"
)

// stubEngine implements Engine with overridable hooks.
type stubEngine struct {
	topProducts       func(limit, daysBack int) ([]domain.ProductMention, domain.QueryMetadata, error)
	channelActivity   func(channel string, daysBack int) (*domain.ChannelActivity, domain.QueryMetadata, error)
	searchMessages    func(p analytics.SearchParams) (*domain.SearchResult, domain.QueryMetadata, error)
	channelComparison func(daysBack int) ([]domain.ChannelMetrics, domain.QueryMetadata, error)
	dailyTrends       func(metric string, daysBack int, channel string) (*domain.TrendAnalysis, domain.QueryMetadata, error)
	health            func() (*domain.HealthStatus, domain.QueryMetadata)
}

func (s *stubEngine) TopProducts(_ context.Context, limit, daysBack int) ([]domain.ProductMention, domain.QueryMetadata, error) {
	return s.topProducts(limit, daysBack)
}

func (s *stubEngine) ChannelActivity(_ context.Context, channel string, daysBack int) (*domain.ChannelActivity, domain.QueryMetadata, error) {
	return s.channelActivity(channel, daysBack)
}

func (s *stubEngine) SearchMessages(_ context.Context, p analytics.SearchParams) (*domain.SearchResult, domain.QueryMetadata, error) {
	return s.searchMessages(p)
}

func (s *stubEngine) ChannelComparison(_ context.Context, daysBack int) ([]domain.ChannelMetrics, domain.QueryMetadata, error) {
	return s.channelComparison(daysBack)
}

func (s *stubEngine) DailyTrends(_ context.Context, metric string, daysBack int, channel string) (*domain.TrendAnalysis, domain.QueryMetadata, error) {
	return s.dailyTrends(metric, daysBack, channel)
}

func (s *stubEngine) DetectionSummary(_ context.Context, _ int) (*domain.DetectionSummary, domain.QueryMetadata, error) {
	return &domain.DetectionSummary{}, domain.QueryMetadata{}, nil
}

func (s *stubEngine) Health(_ context.Context) (*domain.HealthStatus, domain.QueryMetadata) {
	return s.health()
}

func (s *stubEngine) DataOverview(_ context.Context) (*domain.DataOverview, domain.QueryMetadata, error) {
	return &domain.DataOverview{LastUpdate: time.Now()}, domain.QueryMetadata{}, nil
}

func (s *stubEngine) ListChannels(_ context.Context) ([]string, domain.QueryMetadata, error) {
	return []string{"@tikvahpharma"}, domain.QueryMetadata{}, nil
}

func (s *stubEngine) TrendMetrics() []string {
	return []string{"media_ratio", "medical_content", "message_count", "sentiment"}
}

func newTestServer(engine Engine) http.Handler {
	logger := zerolog.Nop()

	return NewServer(engine, &logger, 1000, 1000).Router()
}

func doRequest(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any

	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}

	return rec, body
}

func TestChannelActivityNotFound(t *testing.T) {
	engine := &stubEngine{
		channelActivity: func(channel string, _ int) (*domain.ChannelActivity, domain.QueryMetadata, error) {
			return nil, domain.QueryMetadata{}, fmt.Errorf("%w: %s", errs.ErrChannelNotFound, channel)
		},
	}

	rec, body := doRequest(t, newTestServer(engine), "/api/channels/ghost/activity")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["message"], "ghost")
}

func TestDailyTrendsUnknownMetric(t *testing.T) {
	engine := &stubEngine{
		dailyTrends: func(metric string, _ int, _ string) (*domain.TrendAnalysis, domain.QueryMetadata, error) {
			return nil, domain.QueryMetadata{}, fmt.Errorf("%w: %s", errs.ErrUnknownMetric, metric)
		},
	}

	rec, body := doRequest(t, newTestServer(engine), "/api/analytics/trends?metric=bogus")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestChannelComparisonNoData(t *testing.T) {
	engine := &stubEngine{
		channelComparison: func(int) ([]domain.ChannelMetrics, domain.QueryMetadata, error) {
			return nil, domain.QueryMetadata{}, errs.ErrNoChannelData
		},
	}

	rec, body := doRequest(t, newTestServer(engine), "/api/analytics/channel-comparison")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No channel data found", body["message"])
}

func TestTopProductsRejectsOutOfRangeLimit(t *testing.T) {
	engine := &stubEngine{
		topProducts: func(int, int) ([]domain.ProductMention, domain.QueryMetadata, error) {
			t.Fatal("engine must not run for invalid parameters")
			return nil, domain.QueryMetadata{}, nil
		},
	}

	rec, body := doRequest(t, newTestServer(engine), "/api/reports/top-products?limit=100")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestSearchMessagesResponseShape(t *testing.T) {
	engine := &stubEngine{
		searchMessages: func(p analytics.SearchParams) (*domain.SearchResult, domain.QueryMetadata, error) {
			assert.Equal(t, "insulin price", p.Query)
			assert.Equal(t, 2, p.Page)

			return &domain.SearchResult{
				Query:        p.Query,
				Matches:      []domain.MessageMatch{},
				TotalMatches: 95,
				Pagination: domain.Pagination{
					Page: 2, PageSize: 20, TotalItems: 95, TotalPages: 5,
					HasNext: true, HasPrevious: true,
				},
			}, domain.QueryMetadata{QueryComplexity: "simple"}, nil
		},
	}

	rec, body := doRequest(t, newTestServer(engine), "/api/search/messages?query=insulin+price&page=2")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(95), body["total_matches"])

	pagination, ok := body["pagination"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(5), pagination["total_pages"])
	assert.Equal(t, true, pagination["has_next"])

	metadata, ok := body["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "simple", metadata["query_complexity"])
}

func TestDetectionSummaryCarriesSuggestions(t *testing.T) {
	rec, body := doRequest(t, newTestServer(&stubEngine{}), "/api/analytics/object-detection-summary")

	assert.Equal(t, http.StatusOK, rec.Code)

	suggestions, ok := body["suggestions"].([]any)
	require.True(t, ok, "payload should carry suggestion strings")
	require.Len(t, suggestions, 3)
	assert.Contains(t, suggestions, "Try filtering by specific medical categories")
}

func TestHealthAlwaysAnswers(t *testing.T) {
	engine := &stubEngine{
		health: func() (*domain.HealthStatus, domain.QueryMetadata) {
			return &domain.HealthStatus{
				DatabaseStatus: domain.StatusError,
				LastUpdate:     time.Now(),
			}, domain.QueryMetadata{}
		},
	}

	rec, body := doRequest(t, newTestServer(engine), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "error", body["database_status"])
}

func TestRootListsEndpoints(t *testing.T) {
	rec, body := doRequest(t, newTestServer(&stubEngine{}), "/")

	assert.Equal(t, http.StatusOK, rec.Code)

	endpoints, ok := body["endpoints"].([]any)
	require.True(t, ok)
	assert.Contains(t, endpoints, "/api/reports/top-products")
}

func TestRateLimitRejects(t *testing.T) {
	logger := zerolog.Nop()
	router := NewServer(&stubEngine{}, &logger, 0.001, 1).Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
