package resource

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ConfirmationsAPI interface {
	Get(scope internal.Scope, token string) (Ticket, error)
	Confirm(ctx context.Context, scope internal.Scope, token string) (Ticket, error)
	Cancel(scope internal.Scope, token string) (Ticket, error)
}

// ConfirmationHandler completes the confirm-then-destroy flow started by
// the DELETE and bulk delete endpoints of each module.
type ConfirmationHandler struct {
	*transport.BaseHandler
	Confirmations ConfirmationsAPI
}

func NewConfirmationHandler(base *transport.BaseHandler, confirmations ConfirmationsAPI) *ConfirmationHandler {
	return &ConfirmationHandler{BaseHandler: base, Confirmations: confirmations}
}

func (h *ConfirmationHandler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ticket, err := h.Confirmations.Get(scope, chi.URLParam(r, "token"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ticket)
}

func (h *ConfirmationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	token := chi.URLParam(r, "token")
	ticket, err := h.Confirmations.Confirm(r.Context(), scope, token)
	if err != nil {
		h.Logger.Error("Confirm: delete failed", "error", err, "token", token)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ticket)
}

func (h *ConfirmationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	ticket, err := h.Confirmations.Cancel(scope, chi.URLParam(r, "token"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ticket)
}

// Accepted answers a delete request that now awaits confirmation.
func Accepted(h *transport.BaseHandler, w http.ResponseWriter, ticket Ticket) {
	h.WriteJSON(w, http.StatusAccepted, ticket)
}
