package itam

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

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
	Act(ctx context.Context, scope internal.Scope, id int64, action string, form ActionForm) (*Asset, error)
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

func (h *Handler) ListITAMAssets(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page, err := h.Service.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListITAMAssets: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetITAMAsset(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) GetITAMAssetDetail(w http.ResponseWriter, r *http.Request) {
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
		h.Logger.Error("GetITAMAssetDetail: service error", "error", err, "asset_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateITAMAsset(w http.ResponseWriter, r *http.Request) {
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
		h.Logger.Error("CreateITAMAsset: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, a)
}

func (h *Handler) UpdateITAMAsset(w http.ResponseWriter, r *http.Request) {
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

	var form Form
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	a, err := h.Service.Update(r.Context(), scope, id, form)
	if err != nil {
		h.Logger.Error("UpdateITAMAsset: service error", "error", err, "asset_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// ActITAMAsset handles POST /itam/assets/{id}/actions/{action}. The body
// is optional.
func (h *Handler) ActITAMAsset(w http.ResponseWriter, r *http.Request) {
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

	var form ActionForm
	if r.ContentLength != 0 {
		if err := h.DecodeJSON(r, &form); err != nil {
			h.HandleServiceError(w, err)
			return
		}
	}

	action := chi.URLParam(r, "action")
	a, err := h.Service.Act(r.Context(), scope, id, action, form)
	if err != nil {
		h.Logger.Error("ActITAMAsset: service error", "error", err, "asset_id", id, "action", action, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

func (h *Handler) DeleteITAMAsset(w http.ResponseWriter, r *http.Request) {
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
