package auth

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/transport"
	"github.com/frahmantamala/rbac-admin/pkg/logger"
)

type ServiceAPI interface {
	Login(ctx context.Context, dto LoginDTO, client coreuser.ClientInfo) (*TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID int64, client coreuser.ClientInfo) error
	FindUserByID(ctx context.Context, id int64) (*UserInfo, error)
	Permissions(ctx context.Context, p *coreuser.Principal) ([]string, error)
	Authenticate(ctx context.Context, accessToken string) (*coreuser.Principal, error)
	SendCaptcha(ctx context.Context, dto CaptchaDTO) error
	Register(ctx context.Context, dto RegisterDTO) (*UserInfo, error)
	UpdatePassword(ctx context.Context, p *coreuser.Principal, dto UpdatePasswordDTO) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.Login(r.Context(), dto, coreuser.ClientFromRequest(r))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, transport.Envelope{Code: internal.CodeSuccess, Message: msgLoginSuccess, Data: tokens})
}

func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var dto RefreshTokenDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}

	tokens, err := h.Service.RefreshToken(r.Context(), dto.RefreshToken)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Logout(r.Context(), user.ID, coreuser.ClientFromRequest(r)); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

func (h *Handler) UserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrMissingToken)
		return
	}

	info, err := h.Service.FindUserByID(r.Context(), user.ID)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, info)
}

func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrMissingToken)
		return
	}

	perms, err := h.Service.Permissions(r.Context(), user)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, perms)
}

func (h *Handler) SendCaptcha(w http.ResponseWriter, r *http.Request) {
	var dto CaptchaDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.SendCaptcha(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, "验证码已发送")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	info, err := h.Service.Register(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, info)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrMissingToken)
		return
	}
	var dto UpdatePasswordDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.UpdatePassword(r.Context(), user, dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

// AuthMiddleware resolves the bearer token into a principal on the request
// context and tags the request logger with the user id.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, r, internal.ErrMissingToken)
			return
		}

		principal, err := h.Service.Authenticate(r.Context(), token)
		if err != nil {
			h.WriteAppError(w, r, err)
			return
		}

		ctx := internal.ContextWithUser(r.Context(), principal)
		ctx = logger.With(ctx, "user_id", principal.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
