package post

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	Create(ctx context.Context, dto SavePostDTO) (*Post, error)
	Update(ctx context.Context, id int64, dto SavePostDTO) (*Post, error)
	Delete(ctx context.Context, id int64) error
	Detail(ctx context.Context, id int64) (*Post, error)
	List(ctx context.Context, q ListQuery) (pagination.Page[Post], error)
	ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Params: pagination.Params{
			Current: transport.QueryInt(r, "current", 1),
			Size:    transport.QueryInt(r, "size", pagination.DefaultPageSize),
		},
		Name: r.URL.Query().Get("name"),
		Code: r.URL.Query().Get("code"),
	}
	if v := transport.QueryInt64(r, "status"); v != nil {
		status := int(*v)
		q.Status = &status
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
	p, err := h.Service.Detail(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto SavePostDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	p, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto SavePostDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	p, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, p)
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
