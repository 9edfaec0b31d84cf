package ticket

import (
	"context"
	"net/http"
	"net/url"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Ticket], error)
	Get(ctx context.Context, scope internal.Scope, id int64) (*Ticket, error)
	Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Ticket], error)
	Create(ctx context.Context, scope internal.Scope, form Form) (*Ticket, error)
	Update(ctx context.Context, scope internal.Scope, id int64, form Form) (*Ticket, error)
	BulkUpdate(ctx context.Context, scope internal.Scope, req resource.BulkUpdate) (resource.BulkResult, error)
	Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error)
	BulkDelete(ctx context.Context, scope internal.Scope, ids []int64) (resource.Ticket, error)
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

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	page, err := h.Service.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListTickets: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
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

	t, err := h.Service.Get(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) GetTicketDetail(w http.ResponseWriter, r *http.Request) {
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
		h.Logger.Error("GetTicketDetail: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
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

	t, err := h.Service.Create(r.Context(), scope, form)
	if err != nil {
		h.Logger.Error("CreateTicket: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
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

	t, err := h.Service.Update(r.Context(), scope, id, form)
	if err != nil {
		h.Logger.Error("UpdateTicket: service error", "error", err, "ticket_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) BulkUpdateTickets(w http.ResponseWriter, r *http.Request) {
	user, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var req resource.BulkUpdate
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	result, err := h.Service.BulkUpdate(r.Context(), scope, req)
	if err != nil {
		h.Logger.Error("BulkUpdateTickets: service error", "error", err, "field", req.Field, "count", len(req.IDs), "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) BulkDeleteTickets(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var req BulkDelete
	if err := h.DecodeJSON(r, &req); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	ticket, err := h.Service.BulkDelete(r.Context(), scope, req.IDs)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	resource.Accepted(h.BaseHandler, w, ticket)
}
