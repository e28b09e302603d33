package role

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto SaveRoleDTO) (*Role, error)
	Update(ctx context.Context, id int64, dto SaveRoleDTO) (*Role, error)
	Delete(ctx context.Context, id int64) error
	Detail(ctx context.Context, id int64) (*Detail, error)
	List(ctx context.Context, q ListQuery) (pagination.Page[Role], error)
	GetMenus(ctx context.Context, id int64) ([]int64, error)
	SetMenus(ctx context.Context, dto SetMenusDTO) error
	ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error
	AddUsers(ctx context.Context, dto RoleUsersDTO) error
	RemoveUsers(ctx context.Context, dto RoleUsersDTO) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Params: pagination.Params{
			Current: transport.QueryInt(r, "current", 1),
			Size:    transport.QueryInt(r, "size", pagination.DefaultPageSize),
		},
		Name:     r.URL.Query().Get("name"),
		RoleCode: r.URL.Query().Get("roleCode"),
	}
	if v := transport.QueryInt64(r, "isEnable"); v != nil {
		enable := int(*v)
		q.IsEnable = &enable
	}

	page, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, page)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	detail, err := h.Service.Detail(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, detail)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto SaveRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.Logger.Info("Create: role created", "role_id", created.ID)
	h.WriteSuccess(w, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto SaveRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	updated, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, updated)
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

func (h *Handler) GetMenus(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	menus, err := h.Service.GetMenus(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, menus)
}

func (h *Handler) SetMenus(w http.ResponseWriter, r *http.Request) {
	var dto SetMenusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.SetMenus(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var dto ChangeStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.ChangeStatus(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

func (h *Handler) AddUsers(w http.ResponseWriter, r *http.Request) {
	var dto RoleUsersDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.AddUsers(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

func (h *Handler) RemoveUsers(w http.ResponseWriter, r *http.Request) {
	var dto RoleUsersDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.RemoveUsers(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}
