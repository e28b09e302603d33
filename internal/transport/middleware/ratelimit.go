package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/frahmantamala/rbac-admin/internal/transport"
)

// RateLimitByIP limits each client address to requests per window. A
// non-positive limit disables the check.
func RateLimitByIP(lg *slog.Logger, requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	base := transport.NewBaseHandler(lg)
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			base.WriteError(w, http.StatusTooManyRequests, "请求过于频繁,请稍后再试")
		}),
	)
}
