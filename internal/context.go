package internal

import (
	"context"
	"time"

	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
)

type ctxKey string

const ContextUserKey ctxKey = "principal"

func ContextWithUser(ctx context.Context, p *coreuser.Principal) context.Context {
	return context.WithValue(ctx, ContextUserKey, p)
}

func UserFromContext(ctx context.Context) (*coreuser.Principal, bool) {
	if ctx == nil {
		return nil, false
	}
	p, ok := ctx.Value(ContextUserKey).(*coreuser.Principal)
	return p, ok && p != nil
}

// ActorFromContext returns the username stamped into create_by/update_by
// columns, or "system" when the request is anonymous.
func ActorFromContext(ctx context.Context) string {
	if p, ok := UserFromContext(ctx); ok {
		return p.Username
	}
	return "system"
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
