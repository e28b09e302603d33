package auth

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

// RBACAuthorization guards routes with required permission sets attached at
// route registration.
type RBACAuthorization struct {
	*transport.BaseHandler
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{BaseHandler: transport.NewBaseHandler(logger)}
}

// Require rejects callers that do not hold every listed permission.
func (ra *RBACAuthorization) Require(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok {
				ra.Logger.Warn("authorization check failed: user not found in context", "path", r.URL.Path)
				ra.WriteAppError(w, r, internal.ErrMissingToken)
				return
			}

			if !HasPermissions(user.Permissions, permissions) {
				ra.Logger.WarnContext(r.Context(), "access denied: insufficient permissions",
					"user_id", user.ID,
					"required_permissions", permissions)
				ra.WriteAppError(w, r, internal.ErrNoPermission)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
