// Package api exposes the analytical operations over HTTP with a stable
// JSON envelope, parameter validation and sentinel-error to status mapping.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/karasolutions/telegram-medical-analytics/internal/analytics"
	"github.com/karasolutions/telegram-medical-analytics/internal/core/domain"
	errs "github.com/karasolutions/telegram-medical-analytics/internal/core/errors"
)

const (
	apiName        = "Telegram Medical Data Analytics API"
	apiVersion     = "1.0.0"
	apiDescription = "Analytical API for medical Telegram channel data"
)

// apiEndpoints is the public endpoint catalog served by the root handler.
var apiEndpoints = []string{
	"/api/reports/top-products",
	"/api/channels",
	"/api/channels/{channel}/activity",
	"/api/search/messages",
	"/api/analytics/trends",
	"/api/analytics/channel-comparison",
	"/api/analytics/object-detection-summary",
	"/api/metrics-catalog",
	"/api/stats",
	"/health",
}

// Engine is the analytical service consumed by the HTTP handlers.
type Engine interface {
	TopProducts(ctx context.Context, limit, daysBack int) ([]domain.ProductMention, domain.QueryMetadata, error)
	ChannelActivity(ctx context.Context, channel string, daysBack int) (*domain.ChannelActivity, domain.QueryMetadata, error)
	SearchMessages(ctx context.Context, p analytics.SearchParams) (*domain.SearchResult, domain.QueryMetadata, error)
	ChannelComparison(ctx context.Context, daysBack int) ([]domain.ChannelMetrics, domain.QueryMetadata, error)
	DailyTrends(ctx context.Context, metric string, daysBack int, channel string) (*domain.TrendAnalysis, domain.QueryMetadata, error)
	DetectionSummary(ctx context.Context, daysBack int) (*domain.DetectionSummary, domain.QueryMetadata, error)
	Health(ctx context.Context) (*domain.HealthStatus, domain.QueryMetadata)
	DataOverview(ctx context.Context) (*domain.DataOverview, domain.QueryMetadata, error)
	ListChannels(ctx context.Context) ([]string, domain.QueryMetadata, error)
	TrendMetrics() []string
}

// Server serves the analytical API.
type Server struct {
	engine  Engine
	logger  *zerolog.Logger
	limiter *rate.Limiter
}

// NewServer creates an API server with a shared rate limiter.
func NewServer(engine Engine, logger *zerolog.Logger, rps float64, burst int) *Server {
	return &Server{
		engine:  engine,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Router assembles the middleware chain and route table.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))
	r.Use(requestMetrics)
	r.Use(rateLimit(s.limiter))
	r.Use(cors)

	r.Get("/", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/reports/top-products", s.handleTopProducts)
		r.Get("/channels", s.handleListChannels)
		r.Get("/channels/{channel}/activity", s.handleChannelActivity)
		r.Get("/search/messages", s.handleSearchMessages)
		r.Get("/analytics/channel-comparison", s.handleChannelComparison)
		r.Get("/analytics/trends", s.handleDailyTrends)
		r.Get("/analytics/object-detection-summary", s.handleDetectionSummary)
		r.Get("/metrics-catalog", s.handleTrendMetrics)
		r.Get("/stats", s.handleStats)
	})

	return r
}

// respondError maps domain errors onto HTTP statuses. Unclassified errors
// are logged and reported as an opaque 500.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var pErr *paramError
	if errs.As(err, &pErr) {
		writeError(w, http.StatusBadRequest, pErr.Error())

		return
	}

	switch {
	case errs.Is(err, errs.ErrChannelNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errs.Is(err, errs.ErrNoChannelData):
		writeError(w, http.StatusNotFound, "No channel data found")
	case errs.Is(err, errs.ErrUnknownMetric):
		writeError(w, http.StatusBadRequest, err.Error())
	case errs.Is(err, errs.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error occurred")
	}
}
