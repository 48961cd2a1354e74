package main

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	accessOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skill_access_outcomes_total",
		Help: "Terminal states of skill access requests.",
	}, []string{"state"})
	signedURLCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skill_signed_urls_total",
		Help: "The total number of signed urls issued",
	})
	settledCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skill_payments_settled_total",
		Help: "The total number of payments settled",
	})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_response_duration_seconds",
		Help: "Latency of requests in second.",
	}, []string{"path", "code"})
)

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
			httpDuration.WithLabelValues(routePattern(r), strconv.Itoa(ww.Status())).Observe(v)
		}))

		next.ServeHTTP(ww, r)

		timer.ObserveDuration()
	})
}

// routePattern keeps label cardinality bounded by using the chi route
// instead of the raw path.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
