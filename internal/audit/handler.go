package audit

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Log], error)
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

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	page, err := h.Service.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListAuditLogs: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}
