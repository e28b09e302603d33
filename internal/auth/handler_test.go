package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/rbac-admin/internal"
	"github.com/frahmantamala/rbac-admin/internal/auth"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type stubService struct {
	auth.ServiceAPI
	principal *coreuser.Principal
	authErr   error
	loginDTO  auth.LoginDTO
	client    coreuser.ClientInfo
}

func (s *stubService) Authenticate(_ context.Context, token string) (*coreuser.Principal, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	return s.principal, nil
}

func (s *stubService) Login(_ context.Context, dto auth.LoginDTO, client coreuser.ClientInfo) (*auth.TokenPair, error) {
	s.loginDTO = dto
	s.client = client
	return &auth.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubService) Permissions(_ context.Context, p *coreuser.Principal) ([]string, error) {
	return p.Permissions, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(rec *httptest.ResponseRecorder) envelope {
	var env envelope
	Expect(json.Unmarshal(rec.Body.Bytes(), &env)).To(Succeed())
	return env
}

var _ = Describe("HasPermissions", func() {
	DescribeTable("checks required permissions",
		func(held, required []string, want bool) {
			Expect(auth.HasPermissions(held, required)).To(Equal(want))
		},
		Entry("nothing required", nil, nil, true),
		Entry("all present", []string{"a", "b", "c"}, []string{"a", "c"}, true),
		Entry("one missing", []string{"a"}, []string{"a", "b"}, false),
		Entry("wildcard", []string{"*:*:*"}, []string{"sys:user:del"}, true),
		Entry("no permissions", []string{}, []string{"a"}, false),
	)
})

var _ = Describe("Auth HTTP layer", func() {
	var (
		svc     *stubService
		handler *auth.Handler
		router  chi.Router
	)

	BeforeEach(func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc = &stubService{principal: &coreuser.Principal{ID: 2, Username: "editor", Permissions: []string{"sys:user:view"}}}
		handler = auth.NewHandler(transport.NewBaseHandler(lg), svc)
		rbac := auth.NewRBACAuthorization(lg)

		router = chi.NewRouter()
		router.Post("/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(handler.AuthMiddleware)
			r.Get("/permissions", handler.Permissions)
			r.With(rbac.Require("sys:user:view")).Get("/users", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
			r.With(rbac.Require("sys:user:del")).Delete("/users", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			})
		})
	})

	serve := func(method, path, body, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("wraps the login result in a success envelope", func() {
		rec := serve(http.MethodPost, "/login", `{"username":"editor","password":"secret123"}`, "")
		Expect(rec.Code).To(Equal(http.StatusOK))

		env := decode(rec)
		Expect(env.Code).To(Equal(0))
		Expect(env.Message).To(Equal("登录成功"))
		Expect(string(env.Data)).To(MatchJSON(`{"accessToken":"a","refreshToken":"r"}`))
		Expect(svc.loginDTO.Username).To(Equal("editor"))
		Expect(svc.client.IP).To(Equal("192.0.2.1"))
	})

	It("validates the login body", func() {
		rec := serve(http.MethodPost, "/login", `{"username":"editor"}`, "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(decode(rec).Code).To(Equal(400))
	})

	It("requires a bearer token", func() {
		rec := serve(http.MethodGet, "/permissions", "", "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decode(rec).Message).To(Equal("未登录"))
	})

	It("rejects a revoked session", func() {
		svc.authErr = internal.ErrInvalidToken
		rec := serve(http.MethodGet, "/permissions", "", "tok")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(decode(rec).Message).To(Equal("token无效,请重新登录"))
	})

	It("passes the principal to downstream handlers", func() {
		rec := serve(http.MethodGet, "/permissions", "", "tok")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(string(decode(rec).Data)).To(MatchJSON(`["sys:user:view"]`))
	})

	It("enforces route permissions", func() {
		Expect(serve(http.MethodGet, "/users", "", "tok").Code).To(Equal(http.StatusNoContent))

		rec := serve(http.MethodDelete, "/users", "", "tok")
		Expect(rec.Code).To(Equal(http.StatusForbidden))
		env := decode(rec)
		Expect(env.Code).To(Equal(403))
		Expect(env.Message).To(Equal("用户无权限"))
	})

	It("lets the wildcard through every route", func() {
		svc.principal = &coreuser.Principal{ID: 1, Username: "admin", Permissions: []string{"*:*:*"}}
		Expect(serve(http.MethodDelete, "/users", "", "tok").Code).To(Equal(http.StatusNoContent))
	})
})
