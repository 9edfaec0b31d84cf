package stats

import (
	"context"
	"net/http"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ServiceAPI interface {
	ITAM(ctx context.Context, scope internal.Scope) (ITAMStats, error)
	Helpdesk(ctx context.Context, scope internal.Scope) (HelpdeskStats, error)
	Assets(ctx context.Context, scope internal.Scope) (AssetStats, error)
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

func (h *Handler) GetITAMStats(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	out, err := h.Service.ITAM(r.Context(), scope)
	if err != nil {
		h.Logger.Error("GetITAMStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetHelpdeskStats(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	out, err := h.Service.Helpdesk(r.Context(), scope)
	if err != nil {
		h.Logger.Error("GetHelpdeskStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetAssetStats(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	out, err := h.Service.Assets(r.Context(), scope)
	if err != nil {
		h.Logger.Error("GetAssetStats: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, out)
}
