package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	"github.com/frahmantamala/rbac-admin/internal/dept"
	"github.com/frahmantamala/rbac-admin/internal/dict"
	"github.com/frahmantamala/rbac-admin/internal/loginlog"
	"github.com/frahmantamala/rbac-admin/internal/menu"
	"github.com/frahmantamala/rbac-admin/internal/metrics"
	"github.com/frahmantamala/rbac-admin/internal/post"
	"github.com/frahmantamala/rbac-admin/internal/role"
	"github.com/frahmantamala/rbac-admin/internal/transport/middleware"
	"github.com/frahmantamala/rbac-admin/internal/transport/swagger"
	"github.com/frahmantamala/rbac-admin/internal/user"
)

// Dependencies collects what the router mounts. Nil handlers leave their
// routes unmounted.
type Dependencies struct {
	DB      *sql.DB
	Redis   RedisPinger
	Server  internal.ServerConfig
	Metrics internal.MetricsConfig
	Logger  *slog.Logger

	OpenAPIPath string

	Auth     *auth.Handler
	RBAC     *auth.RBACAuthorization
	Menu     *menu.Handler
	Role     *role.Handler
	User     *user.Handler
	Dept     *dept.Handler
	Post     *post.Handler
	Dict     *dict.Handler
	LoginLog *loginlog.Handler
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	healthHandler := NewHealthHandler(deps.DB, deps.Redis)
	rbac := deps.RBAC
	if rbac == nil {
		rbac = auth.NewRBACAuthorization(deps.Logger)
	}
	perm := rbac.Require

	router.Use(middleware.CORS(deps.Server.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware)
	if deps.Metrics.Enabled {
		router.Use(metrics.Middleware)
		path := deps.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		router.Handle(path, metrics.Handler())
	}

	openAPIPath := deps.OpenAPIPath
	if openAPIPath == "" {
		openAPIPath = swagger.DefaultDocumentPath
	}
	router.Get("/openapi.yml", swagger.DocumentHandler(openAPIPath))
	router.Handle("/swagger/*", swagger.Handler())

	loginLimit := middleware.RateLimitByIP(deps.Logger, deps.Server.LoginRateLimit, time.Minute)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if deps.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.With(loginLimit).Post("/login", deps.Auth.Login)
			sr.With(loginLimit).Post("/captcha", deps.Auth.SendCaptcha)
			sr.Post("/refresh", deps.Auth.RefreshToken)
			sr.Post("/register", deps.Auth.Register)

			sr.Group(func(ar chi.Router) {
				ar.Use(deps.Auth.AuthMiddleware)
				ar.Post("/logout", deps.Auth.Logout)
				ar.Get("/userinfo", deps.Auth.UserInfo)
				ar.Get("/permissions", deps.Auth.Permissions)
				ar.Put("/password", deps.Auth.UpdatePassword)
			})
		})

		r.Group(func(pr chi.Router) {
			pr.Use(deps.Auth.AuthMiddleware)

			if h := deps.Menu; h != nil {
				pr.Route("/menus", func(mr chi.Router) {
					mr.Get("/user", h.UserMenus)
					mr.With(perm("system:menu:list")).Get("/", h.TreeList)
					mr.With(perm("system:menu:query")).Get("/{id}", h.Detail)
					mr.With(perm("system:menu:add")).Post("/", h.Create)
					mr.With(perm("system:menu:edit")).Put("/", h.Update)
					mr.With(perm("system:menu:delete")).Delete("/{id}", h.Delete)
				})
			}

			if h := deps.Role; h != nil {
				pr.Route("/roles", func(rr chi.Router) {
					rr.With(perm("system:role:list")).Get("/", h.List)
					rr.With(perm("system:role:query")).Get("/{id}", h.Detail)
					rr.With(perm("system:role:query")).Get("/{id}/menus", h.GetMenus)
					rr.With(perm("system:role:add")).Post("/", h.Create)
					rr.With(perm("system:role:edit")).Put("/{id}", h.Update)
					rr.With(perm("system:role:edit")).Put("/menus", h.SetMenus)
					rr.With(perm("system:role:edit")).Put("/status", h.ChangeStatus)
					rr.With(perm("system:role:edit")).Post("/users", h.AddUsers)
					rr.With(perm("system:role:edit")).Delete("/users", h.RemoveUsers)
					rr.With(perm("system:role:delete")).Delete("/{id}", h.Delete)
				})
			}

			if h := deps.User; h != nil {
				pr.Route("/users", func(ur chi.Router) {
					ur.With(perm("system:user:list")).Get("/", h.List)
					ur.With(perm("system:user:list")).Get("/role/{roleId}", h.ListByRole)
					ur.With(perm("system:user:query")).Get("/{id}", h.Detail)
					ur.With(perm("system:user:add")).Post("/", h.Create)
					ur.With(perm("system:user:edit")).Put("/{id}", h.Update)
					ur.With(perm("system:user:edit")).Put("/status", h.ChangeStatus)
					ur.With(perm("system:user:edit")).Delete("/role", h.RemoveRole)
					ur.With(perm("system:user:resetPwd")).Put("/{id}/password", h.ResetPassword)
					ur.With(perm("system:user:delete")).Delete("/{id}", h.Delete)
					ur.With(perm("system:user:delete")).Delete("/", h.BatchDelete)
				})
			}

			if h := deps.Dept; h != nil {
				pr.Route("/depts", func(dr chi.Router) {
					dr.Get("/tree", h.Tree)
					dr.With(perm("system:dept:list")).Get("/", h.List)
					dr.With(perm("system:dept:add")).Get("/constant", h.Constant)
					dr.With(perm("system:dept:query")).Get("/{id}", h.Detail)
					dr.With(perm("system:dept:add")).Post("/", h.Create)
					dr.With(perm("system:dept:edit")).Put("/{id}", h.Update)
					dr.With(perm("system:dept:edit")).Put("/status", h.ChangeStatus)
					dr.With(perm("system:dept:delete")).Delete("/{id}", h.Delete)
				})
			}

			if h := deps.Post; h != nil {
				pr.Route("/posts", func(por chi.Router) {
					por.With(perm("system:post:list")).Get("/", h.List)
					por.With(perm("system:post:query")).Get("/{id}", h.Detail)
					por.With(perm("system:post:add")).Post("/", h.Create)
					por.With(perm("system:post:edit")).Put("/{id}", h.Update)
					por.With(perm("system:post:edit")).Put("/status", h.ChangeStatus)
					por.With(perm("system:post:delete")).Delete("/{id}", h.Delete)
				})
			}

			if h := deps.Dict; h != nil {
				pr.Route("/dicts", func(dr chi.Router) {
					dr.Get("/type/{code}", h.ByType)
					dr.Get("/type/{code}/object", h.AsObjectByType)

					dr.With(perm("system:dict:list")).Get("/", h.ListDicts)
					dr.With(perm("system:dict:query")).Get("/{id}", h.DictDetail)
					dr.With(perm("system:dict:add")).Post("/", h.CreateDict)
					dr.With(perm("system:dict:edit")).Put("/{id}", h.UpdateDict)
					dr.With(perm("system:dict:delete")).Delete("/{id}", h.DeleteDict)

					dr.With(perm("system:dict:list")).Get("/{id}/data", h.ListData)
					dr.With(perm("system:dict:query")).Get("/data/{dataId}", h.DataDetail)
					dr.With(perm("system:dict:add")).Post("/data", h.CreateData)
					dr.With(perm("system:dict:edit")).Put("/data/{dataId}", h.UpdateData)
					dr.With(perm("system:dict:delete")).Delete("/data/{dataId}", h.DeleteData)
				})
			}

			if h := deps.LoginLog; h != nil {
				pr.With(perm("monitor:loginlog:list")).Get("/login-logs", h.List)
			}
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rbac.WriteError(w, http.StatusNotFound, "接口不存在")
	})
}
