package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karasolutions/telegram-medical-analytics/internal/analytics"
)

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiInfoResponse{
		Name:        apiName,
		Version:     apiVersion,
		Description: apiDescription,
		Endpoints:   apiEndpoints,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, _ := s.engine.Health(r.Context())

	writeJSON(w, http.StatusOK, healthResponse{
		baseResponse:    okBase(),
		DatabaseStatus:  status.DatabaseStatus,
		TotalMessages:   status.TotalMessages,
		TotalDetections: status.TotalDetections,
		LastUpdate:      status.LastUpdate,
	})
}

func (s *Server) handleTopProducts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultProductLimit, minProductLimit, maxProductLimit)
	if err != nil {
		s.respondError(w, err)

		return
	}

	daysBack, err := intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	products, meta, err := s.engine.TopProducts(r.Context(), limit, daysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, topProductsResponse{
		baseResponse:   okBase(),
		Products:       productPayloads(products),
		TotalProducts:  len(products),
		AnalysisPeriod: formatWindow(daysBack),
		Metadata:       metadataPayload(meta),
	})
}

func (s *Server) handleChannelActivity(w http.ResponseWriter, r *http.Request) {
	daysBack, err := intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	channel := chi.URLParam(r, "channel")

	activity, meta, err := s.engine.ChannelActivity(r.Context(), channel, daysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, channelActivityPayload(activity, meta))
}

func (s *Server) handleSearchMessages(w http.ResponseWriter, r *http.Request) {
	query, err := queryParam(r)
	if err != nil {
		s.respondError(w, err)

		return
	}

	dateFrom, err := dateParam(r, "date_from")
	if err != nil {
		s.respondError(w, err)

		return
	}

	dateTo, err := dateParam(r, "date_to")
	if err != nil {
		s.respondError(w, err)

		return
	}

	hasMedia, err := boolParam(r, "has_media")
	if err != nil {
		s.respondError(w, err)

		return
	}

	sentiment, err := sentimentParam(r)
	if err != nil {
		s.respondError(w, err)

		return
	}

	minRelevance, err := floatParam(r, "min_relevance", 0, 0, 1)
	if err != nil {
		s.respondError(w, err)

		return
	}

	page, err := pageParam(r)
	if err != nil {
		s.respondError(w, err)

		return
	}

	pageSize, err := intParam(r, "page_size", defaultPageSize, minPageSize, maxPageSize)
	if err != nil {
		s.respondError(w, err)

		return
	}

	params := analytics.SearchParams{
		Query:        query,
		Channels:     r.URL.Query()["channels"],
		DateFrom:     dateFrom,
		DateTo:       dateTo,
		HasMedia:     hasMedia,
		Sentiment:    sentiment,
		MinRelevance: minRelevance,
		Page:         page,
		PageSize:     pageSize,
	}

	result, meta, err := s.engine.SearchMessages(r.Context(), params)
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, searchPayload(result, meta))
}

func (s *Server) handleChannelComparison(w http.ResponseWriter, r *http.Request) {
	daysBack, err := intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	metrics, meta, err := s.engine.ChannelComparison(r.Context(), daysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, comparisonPayload(metrics, daysBack, meta))
}

func (s *Server) handleDailyTrends(w http.ResponseWriter, r *http.Request) {
	daysBack, err := intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = "message_count"
	}

	channel := r.URL.Query().Get("channel")

	analysis, meta, err := s.engine.DailyTrends(r.Context(), metric, daysBack, channel)
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, trendsPayload(analysis, meta))
}

func (s *Server) handleDetectionSummary(w http.ResponseWriter, r *http.Request) {
	daysBack, err := intParam(r, "days_back", defaultDaysBack, minDaysBack, maxDaysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	summary, meta, err := s.engine.DetectionSummary(r.Context(), daysBack)
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, detectionPayload(summary, meta))
}

func (s *Server) handleListChannels(w http.ResponseWriter, r *http.Request) {
	channels, _, err := s.engine.ListChannels(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	if channels == nil {
		channels = []string{}
	}

	writeJSON(w, http.StatusOK, channels)
}

func (s *Server) handleTrendMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.TrendMetrics())
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	overview, _, err := s.engine.DataOverview(r.Context())
	if err != nil {
		s.respondError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalMessages:   overview.TotalMessages,
		TotalDetections: overview.TotalDetections,
		DataRange: dateRangePayload{
			EarliestDate: overview.EarliestDate,
			LatestDate:   overview.LatestDate,
		},
		LastUpdate:         overview.LastUpdate,
		APIVersion:         apiVersion,
		EndpointsAvailable: len(apiEndpoints),
	})
}
