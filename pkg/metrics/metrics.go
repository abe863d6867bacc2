package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_searches_total",
			Help: "Total number of worker proximity searches",
		},
		[]string{"service", "source", "status"},
	)

	SearchCandidates = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_search_candidates",
			Help:    "Number of candidates returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"service"},
	)

	GeocodeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_requests_total",
			Help: "Total number of geocoding provider calls",
		},
		[]string{"service", "kind", "status"},
	)

	GeocodeCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_hits_total",
			Help: "Geocode cache lookups by result",
		},
		[]string{"service", "result"},
	)

	DispatchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_outcomes_total",
			Help: "Per-recipient dispatch outcomes",
		},
		[]string{"service", "status"},
	)

	DispatchBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_batch_duration_seconds",
			Help:    "Duration of a full dispatch batch",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"service", "operation", "status"},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "queue", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordSearch records a worker search with its location source
func RecordSearch(service, source string, err error, candidates int) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SearchesTotal.WithLabelValues(service, source, status).Inc()
	if err == nil {
		SearchCandidates.WithLabelValues(service).Observe(float64(candidates))
	}
}

// RecordGeocode records a geocoding provider call
func RecordGeocode(service, kind string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GeocodeRequestsTotal.WithLabelValues(service, kind, status).Inc()
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(service, operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueriesTotal.WithLabelValues(service, operation, status).Inc()
}

// RecordDispatchOutcome records one per-recipient dispatch outcome
func RecordDispatchOutcome(service, status string) {
	DispatchOutcomesTotal.WithLabelValues(service, status).Inc()
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, queue string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RabbitMQMessagesPublished.WithLabelValues(service, queue, status).Inc()
}
