package dict

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/rbac-admin/internal/core/common/pagination"
	"github.com/frahmantamala/rbac-admin/internal/transport"
)

type ServiceAPI interface {
	CreateDict(ctx context.Context, dto SaveDictDTO) (*Dict, error)
	UpdateDict(ctx context.Context, id int64, dto SaveDictDTO) (*Dict, error)
	DeleteDict(ctx context.Context, id int64) error
	ListDicts(ctx context.Context, name string) ([]Dict, error)
	DictDetail(ctx context.Context, id int64) (*Dict, error)
	CreateData(ctx context.Context, dto SaveDataDTO) (*Data, error)
	UpdateData(ctx context.Context, id int64, dto SaveDataDTO) (*Data, error)
	DeleteData(ctx context.Context, id int64) error
	DataDetail(ctx context.Context, id int64) (*Data, error)
	ListData(ctx context.Context, typeID int64, params pagination.Params) (pagination.Page[Data], error)
	ByType(ctx context.Context, code string) ([]Data, error)
	AsObjectByType(ctx context.Context, code string) (map[string]string, error)
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

func (h *Handler) ListDicts(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ListDicts(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, list)
}

func (h *Handler) DictDetail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.DictDetail(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) CreateDict(w http.ResponseWriter, r *http.Request) {
	var dto SaveDictDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.CreateDict(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) UpdateDict(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto SaveDictDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.UpdateDict(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) DeleteDict(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.DeleteDict(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

// ListData handles GET /dicts/{id}/data
func (h *Handler) ListData(w http.ResponseWriter, r *http.Request) {
	typeID, err := transport.PathID(r, "id")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	params := pagination.Params{
		Current: transport.QueryInt(r, "current", 1),
		Size:    transport.QueryInt(r, "size", pagination.DefaultPageSize),
	}
	page, err := h.Service.ListData(r.Context(), typeID, params)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, page)
}

func (h *Handler) DataDetail(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "dataId")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.DataDetail(r.Context(), id)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) CreateData(w http.ResponseWriter, r *http.Request) {
	var dto SaveDataDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.CreateData(r.Context(), dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) UpdateData(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "dataId")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	var dto SaveDataDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	d, err := h.Service.UpdateData(r.Context(), id, dto)
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, d)
}

func (h *Handler) DeleteData(w http.ResponseWriter, r *http.Request) {
	id, err := transport.PathID(r, "dataId")
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	if err := h.Service.DeleteData(r.Context(), id); err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, nil)
}

// ByType handles GET /dicts/type/{code}
func (h *Handler) ByType(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.ByType(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, list)
}

// AsObjectByType handles GET /dicts/type/{code}/object
func (h *Handler) AsObjectByType(w http.ResponseWriter, r *http.Request) {
	obj, err := h.Service.AsObjectByType(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.WriteAppError(w, r, err)
		return
	}
	h.WriteSuccess(w, obj)
}
