package dept

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, q Query) ([]*Dept, error)
	Tree(ctx context.Context) ([]*Dept, error)
	Detail(ctx context.Context, id int64) (*Dept, error)
	Create(ctx context.Context, dto SaveDeptDTO) (*Dept, error)
	Update(ctx context.Context, id int64, dto SaveDeptDTO) (*Dept, error)
	Delete(ctx context.Context, id int64) error
	ChangeStatus(ctx context.Context, dto ChangeStatusDTO) error
	Constant(ctx context.Context) (*Constant, error)
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
	q := Query{
		DeptName: r.URL.Query().Get("deptName"),
		DeptCode: r.URL.Query().Get("deptCode"),
		ParentID: transport.QueryInt64(r, "pid"),
	}
	if v := transport.QueryInt64(r, "status"); v != nil {
		status := int(*v)
		q.Status = &status
	}

	list, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, list)
}

func (h *Handler) Tree(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.Tree(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, list)
}

func (h *Handler) Constant(w http.ResponseWriter, r *http.Request) {
	c, err := h.Service.Constant(r.Context())
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, c)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.Detail(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto SaveDeptDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.Create(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto SaveDeptDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.Update(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
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
