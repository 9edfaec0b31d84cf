package asset

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Asset], error)
	Get(ctx context.Context, scope internal.Scope, id int64) (*Asset, error)
	Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Asset], error)
	Create(ctx context.Context, scope internal.Scope, form Form) (*Asset, error)
	Update(ctx context.Context, scope internal.Scope, id int64, form Form) (*Asset, error)
	Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error)
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

func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page, err := h.Service.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListAssets: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Get(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) GetAssetDetail(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	detail, err := h.Service.Detail(r.Context(), scope, id)
	if err != nil {
		h.Logger.Error("GetAssetDetail: service error", "error", err, "asset_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	user, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var form Form
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Create(r.Context(), scope, form)
	if err != nil {
		h.Logger.Error("CreateAsset: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	user, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var form Form
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Update(r.Context(), scope, id, form)
	if err != nil {
		h.Logger.Error("UpdateAsset: service error", "error", err, "asset_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	ticket, err := h.Service.Delete(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	resource.Accepted(h.BaseHandler, w, ticket)
}
