package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderms"

// MessageOutcome labels what happened to a consumed delivery.
type MessageOutcome string

const (
	MessageOutcomeProcessed MessageOutcome = "processed"
	MessageOutcomeRejected  MessageOutcome = "rejected"
	MessageOutcomeRequeued  MessageOutcome = "requeued"
)

// ConsumerMetrics tracks queue message processing.
type ConsumerMetrics struct {
	messages  *prometheus.CounterVec
	latencyMS *prometheus.HistogramVec
}

// NewConsumerMetrics creates and registers consumer metrics.
func NewConsumerMetrics() *ConsumerMetrics {
	messages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "consumer",
		Name:      "messages_total",
		Help:      "Total number of consumed messages by outcome.",
	}, []string{"outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "consumer",
		Name:      "message_duration_ms",
		Help:      "Message processing latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"outcome"})

	prometheus.MustRegister(messages, latency)

	return &ConsumerMetrics{
		messages:  messages,
		latencyMS: latency,
	}
}

// ObserveMessage records one handled delivery.
func (m *ConsumerMetrics) ObserveMessage(outcome MessageOutcome, d time.Duration) {
	m.messages.WithLabelValues(string(outcome)).Inc()
	m.latencyMS.WithLabelValues(string(outcome)).Observe(float64(d.Milliseconds()))
}

// ServerMetrics tracks HTTP request handling.
type ServerMetrics struct {
	requests  *prometheus.CounterVec
	latencyMS *prometheus.HistogramVec
}

// NewServerMetrics creates and registers HTTP server metrics.
func NewServerMetrics() *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"method"})

	prometheus.MustRegister(requests, latency)

	return &ServerMetrics{
		requests:  requests,
		latencyMS: latency,
	}
}

// Middleware instruments an HTTP handler with request count and latency.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.requests.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		m.latencyMS.WithLabelValues(r.Method).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
