package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WarehouseQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_warehouse_queries_total",
		Help: "The total number of warehouse queries by operation and status",
	}, []string{"operation", "status"})

	WarehouseQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_warehouse_query_duration_seconds",
		Help:    "Duration of warehouse queries by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	OperationRowsProcessed = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_operation_rows_processed",
		Help:    "Distribution of row counts processed per analytical operation",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
	}, []string{"operation"})

	OperationComplexity = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_operation_complexity_total",
		Help: "The total number of operations by classified query complexity",
	}, []string{"operation", "complexity"})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_http_requests_total",
		Help: "The total number of HTTP requests by route and status code",
	}, []string{"route", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_http_request_duration_seconds",
		Help:    "Duration of HTTP requests by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	HTTPRequestsThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "analytics_http_requests_throttled_total",
		Help: "The total number of HTTP requests rejected by the rate limiter",
	})
)
