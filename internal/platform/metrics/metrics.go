// Copyright (c) 2026 Inkwell CMS. All rights reserved.

// Package metrics exposes Prometheus instrumentation for the HTTP layer.
//
// Path labels use the chi route pattern rather than the raw URL so that
// /users/42 and /users/43 share one series.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Requests rejected by the authentication or authorization gates.",
		},
		[]string{"reason"},
	)
)

// Init registers all collectors with the default registry.
// Call exactly once at startup.
func Init() {
	prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, authRejectionsTotal)
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CountAuthRejection records a gate rejection by reason
// (e.g. "revoked", "expired", "missing_permission").
func CountAuthRejection(reason string) {
	authRejectionsTotal.WithLabelValues(reason).Inc()
}

// Instrument measures request rate, latency, and in-flight count.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)
		path := routePattern(r)

		httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// routePattern resolves the matched chi route template, falling back to the
// raw path for unrouted requests.
func routePattern(r *http.Request) string {
	if routeContext := chi.RouteContext(r.Context()); routeContext != nil {
		if pattern := routeContext.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// statusWriter captures the response status code for labeling.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
