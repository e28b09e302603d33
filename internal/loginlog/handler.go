package loginlog

import (
	"context"
	"net/http"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) (pagination.Page[LoginLog], error)
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
		Username:  r.URL.Query().Get("username"),
		IPAddr:    r.URL.Query().Get("ipaddr"),
		Status:    r.URL.Query().Get("status"),
		StartTime: transport.QueryTime(r, "startTime"),
		EndTime:   transport.QueryTime(r, "endTime"),
	}

	page, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, page)
}
