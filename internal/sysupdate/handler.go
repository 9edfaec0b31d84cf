package sysupdate

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ServiceAPI interface {
	List(category, search string) []Update
	Stats() Stats
	Schedule(id string, at time.Time) (Update, error)
	Install(id string) (Update, error)
	InstallAll() []Update
	Refresh() Stats
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

func (h *Handler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.Session(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	q := r.URL.Query()
	h.WriteJSON(w, http.StatusOK, h.Service.List(q.Get("category"), q.Get("search")))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.Session(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Stats())
}

func (h *Handler) ScheduleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var req ScheduleRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	u, err := h.Service.Schedule(id, req.At())
	if err != nil {
		h.Logger.Error("ScheduleUpdate: service error", "error", err, "update_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) InstallUpdate(w http.ResponseWriter, r *http.Request) {
	user, _, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	id := chi.URLParam(r, "id")
	u, err := h.Service.Install(id)
	if err != nil {
		h.Logger.Error("InstallUpdate: service error", "error", err, "update_id", id, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusAccepted, u)
}

func (h *Handler) InstallAll(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.Session(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusAccepted, h.Service.InstallAll())
}

func (h *Handler) RefreshUpdates(w http.ResponseWriter, r *http.Request) {
	if _, _, err := h.Session(r); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, h.Service.Refresh())
}
