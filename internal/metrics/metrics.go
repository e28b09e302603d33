// Package metrics exposes Prometheus collectors for HTTP traffic, logins,
// the menu cache and the IP location lookup.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbac_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rbac_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LoginAttemptsTotal counts login and logout outcomes ("success", "not_found",
	// "bad_password", "frozen", "logout").
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbac_login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	MenuCacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rbac_menu_cache_hits_total",
			Help: "Total number of user menu cache hits",
		},
	)

	MenuCacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rbac_menu_cache_misses_total",
			Help: "Total number of user menu cache misses",
		},
	)

	MenuCacheInvalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbac_menu_cache_invalidations_total",
			Help: "Total number of evicted user menu cache entries",
		},
		[]string{"reason"}, // "logout", "menu_change", "role_change", "user_change"
	)

	GeoIPLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rbac_geoip_lookups_total",
			Help: "Total number of IP location lookups by outcome",
		},
		[]string{"outcome"}, // "ok", "local", "error", "open"
	)

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rbac_circuit_breaker_state",
			Help: "Current circuit breaker state by breaker name",
		},
		[]string{"name"},
	)
)

func RecordLogin(outcome string) {
	LoginAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordMenuCache(hit bool) {
	if hit {
		MenuCacheHitsTotal.Inc()
		return
	}
	MenuCacheMissesTotal.Inc()
}

func RecordMenuInvalidation(reason string, n int) {
	MenuCacheInvalidationsTotal.WithLabelValues(reason).Add(float64(n))
}

func RecordGeoIPLookup(outcome string) {
	GeoIPLookupsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request count and latency labelled by the matched chi
// route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
