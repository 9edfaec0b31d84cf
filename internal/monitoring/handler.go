package monitoring

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ServiceAPI interface {
	Snapshot() Snapshot
	Refresh() Snapshot
	ResolveIncident(id string) (Incident, error)
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

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.Session(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Snapshot())
}

func (h *Handler) RefreshDashboard(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.Session(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Refresh())
}

func (h *Handler) ResolveIncident(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	inc, err := h.Service.ResolveIncident(id)
	if err != nil {
		h.Logger.Error("ResolveIncident: service error", "error", err, "incident_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, inc)
}
