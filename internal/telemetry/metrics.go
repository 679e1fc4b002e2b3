// Package telemetry exposes Prometheus collectors for the microsite service.
package telemetry

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	generationsTotal           *prometheus.CounterVec
	fetchTotal                 *prometheus.CounterVec
	composeTotal               *prometheus.CounterVec
	leadsTotal                 prometheus.Counter
	pageviewsTotal             *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		generationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitespark_generations_total",
				Help: "Total microsite generations, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitespark_fetch_total",
				Help: "Total target page fetches, labeled by mode and result.",
			},
			[]string{"mode", "result"},
		)

		composeTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitespark_compose_total",
				Help: "Total content compositions, labeled by mode.",
			},
			[]string{"mode"},
		)

		leadsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sitespark_leads_total",
				Help: "Total leads captured.",
			},
		)

		pageviewsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitespark_pageviews_total",
				Help: "Total tracked pageviews, labeled by uniqueness.",
			},
			[]string{"unique"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveGeneration increments the generation counter for the given outcome.
func ObserveGeneration(outcome string) {
	generationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch increments the fetch counter. Mode is "static" or "headless".
func ObserveFetch(mode string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	fetchTotal.WithLabelValues(mode, result).Inc()
}

// ObserveCompose increments the composition counter for the given mode.
func ObserveCompose(mode string) {
	composeTotal.WithLabelValues(mode).Inc()
}

// ObserveLead increments the captured-lead counter.
func ObserveLead() {
	leadsTotal.Inc()
}

// ObservePageview increments the pageview counter.
func ObservePageview(unique bool) {
	pageviewsTotal.WithLabelValues(strconv.FormatBool(unique)).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
