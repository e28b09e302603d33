package menu

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal"
	coreuser "github.com/frahmantamala/rbac-admin/internal/core/user"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	GetUserMenuList(ctx context.Context, p *coreuser.Principal) ([]*UserMenu, error)
	TreeList(ctx context.Context, name string) ([]*Menu, error)
	Detail(ctx context.Context, id int64) (*Menu, error)
	Create(ctx context.Context, dto SaveMenuDTO) (*Menu, error)
	Update(ctx context.Context, dto UpdateMenuDTO) (*Menu, error)
	Delete(ctx context.Context, id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) UserMenus(w http.ResponseWriter, r *http.Request) {
	p, ok := internal.UserFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, r, internal.ErrMissingToken)
		return
	}

	menus, err := h.Service.GetUserMenuList(r.Context(), p)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, menus)
}

func (h *Handler) TreeList(w http.ResponseWriter, r *http.Request) {
	menus, err := h.Service.TreeList(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, menus)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	m, err := h.Service.Detail(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto SaveMenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	m, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto UpdateMenuDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	m, err := h.Service.Update(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, m)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}
