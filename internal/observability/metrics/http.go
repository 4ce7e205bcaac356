package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	chatTotal          *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	extractionFailures *prometheus.CounterVec
	snapshotMissTotal  *prometheus.CounterVec
	uploadBytes        *prometheus.HistogramVec
}

func NewServerMetrics(service string) *ServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgw",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatgw",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "chatgw",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	chatTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgw",
			Subsystem: "chat",
			Name:      "requests_total",
			Help:      "Total chat requests by outcome.",
		},
		[]string{"service", "outcome"},
	)
	completionDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatgw",
			Subsystem: "chat",
			Name:      "completion_duration_seconds",
			Help:      "Upstream completion call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 60},
		},
		[]string{"service"},
	)
	extractionFailures := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgw",
			Subsystem: "chat",
			Name:      "extraction_failures_total",
			Help:      "Total upload extractions that failed and were omitted.",
		},
		[]string{"service", "media_type"},
	)
	snapshotMissTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatgw",
			Subsystem: "chat",
			Name:      "snapshot_misses_total",
			Help:      "Total chat requests assembled without a website snapshot.",
		},
		[]string{"service"},
	)
	uploadBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatgw",
			Subsystem: "chat",
			Name:      "upload_bytes",
			Help:      "Distribution of accepted upload sizes in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"service", "media_type"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		chatTotal,
		completionDuration,
		extractionFailures,
		snapshotMissTotal,
		uploadBytes,
	)

	return &ServerMetrics{
		registry:           registry,
		requestTotal:       requestTotal,
		requestDuration:    requestDuration,
		requestInFlight:    requestInFlight,
		chatTotal:          chatTotal,
		completionDuration: completionDuration,
		extractionFailures: extractionFailures,
		snapshotMissTotal:  snapshotMissTotal,
		uploadBytes:        uploadBytes,
	}
}

func (m *ServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *ServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			r.URL.Path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

func (m *ServerMetrics) RecordChatOutcome(service, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.chatTotal.WithLabelValues(service, outcome).Inc()
}

func (m *ServerMetrics) RecordCompletionDuration(service string, duration time.Duration) {
	if m == nil {
		return
	}
	m.completionDuration.WithLabelValues(service).Observe(duration.Seconds())
}

func (m *ServerMetrics) RecordExtractionFailure(service, mediaType string) {
	if m == nil {
		return
	}
	if mediaType == "" {
		mediaType = "unknown"
	}
	m.extractionFailures.WithLabelValues(service, mediaType).Inc()
}

func (m *ServerMetrics) RecordSnapshotMiss(service string) {
	if m == nil {
		return
	}
	m.snapshotMissTotal.WithLabelValues(service).Inc()
}

func (m *ServerMetrics) RecordUploadSize(service, mediaType string, size int64) {
	if m == nil || size <= 0 {
		return
	}
	m.uploadBytes.WithLabelValues(service, mediaType).Observe(float64(size))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
