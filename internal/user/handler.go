package user

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto SaveUserDTO) (*Detail, error)
	Update(ctx context.Context, id int64, dto SaveUserDTO) (*Detail, error)
	Detail(ctx context.Context, id int64) (*Detail, error)
	Delete(ctx context.Context, id int64) error
	BatchDelete(ctx context.Context, dto IDsDTO) error
	List(ctx context.Context, q ListQuery) (pagination.Page[User], error)
	ListByRole(ctx context.Context, roleID int64, params pagination.Params) (pagination.Page[User], error)
	RemoveRole(ctx context.Context, dto RemoveRoleDTO) error
	ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error
	ResetPassword(ctx context.Context, id int64) error
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

func pageParams(r *http.Request) pagination.Params {
	return pagination.Params{
		Current: transport.QueryInt(r, "current", 1),
		Size:    transport.QueryInt(r, "size", pagination.DefaultPageSize),
	}
}

// List handles GET /users
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := ListQuery{
		Params:      pageParams(r),
		DeptID:      transport.QueryInt64(r, "deptId"),
		Username:    qs.Get("username"),
		Nickname:    qs.Get("nickname"),
		Email:       qs.Get("email"),
		PhoneNumber: qs.Get("phoneNum"),
		IsFrozen:    qs.Get("isFrozen"),
		StartTime:   transport.QueryTime(r, "startTime"),
		EndTime:     transport.QueryTime(r, "endTime"),
	}

	page, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, page)
}

// ListByRole handles GET /users/role/{roleId}
func (h *Handler) ListByRole(w http.ResponseWriter, r *http.Request) {
	roleID, err := transport.PathID(r, "roleId")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	page, err := h.Service.ListByRole(r.Context(), roleID, pageParams(r))
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
	var dto SaveUserDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto SaveUserDTO
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

func (h *Handler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var dto IDsDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.BatchDelete(r.Context(), dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

func (h *Handler) RemoveRole(w http.ResponseWriter, r *http.Request) {
	var dto RemoveRoleDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.RemoveRole(r.Context(), dto); err != nil {
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

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.ResetPassword(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}
