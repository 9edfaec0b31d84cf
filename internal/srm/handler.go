package srm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/transport"
)

type RequestServiceAPI interface {
	List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Request], error)
	Get(ctx context.Context, scope internal.Scope, id int64) (*Request, error)
	Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Request], error)
	Create(ctx context.Context, scope internal.Scope, form RequestForm) (*Request, error)
	Update(ctx context.Context, scope internal.Scope, id int64, form RequestForm) (*Request, error)
	Act(ctx context.Context, scope internal.Scope, id int64, action string) (*Request, error)
	Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error)
}

type ChangeServiceAPI interface {
	List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Change], error)
	Get(ctx context.Context, scope internal.Scope, id int64) (*Change, error)
	Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Change], error)
	Create(ctx context.Context, scope internal.Scope, form ChangeForm) (*Change, error)
	Update(ctx context.Context, scope internal.Scope, id int64, form ChangeForm) (*Change, error)
	Act(ctx context.Context, scope internal.Scope, id int64, action string) (*Change, error)
	Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error)
}

type Handler struct {
	*transport.BaseHandler
	Requests RequestServiceAPI
	Changes  ChangeServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, requests RequestServiceAPI, changes ChangeServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Requests:    requests,
		Changes:     changes,
	}
}

func (h *Handler) ListRequests(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	page, err := h.Requests.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListRequests: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
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
	req, err := h.Requests.Get(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) GetRequestDetail(w http.ResponseWriter, r *http.Request) {
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
	detail, err := h.Requests.Detail(r.Context(), scope, id)
	if err != nil {
		h.Logger.Error("GetRequestDetail: service error", "error", err, "request_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	user, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var form RequestForm
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	req, err := h.Requests.Create(r.Context(), scope, form)
	if err != nil {
		h.Logger.Error("CreateRequest: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, req)
}

func (h *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
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
	var form RequestForm
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	req, err := h.Requests.Update(r.Context(), scope, id, form)
	if err != nil {
		h.Logger.Error("UpdateRequest: service error", "error", err, "request_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) ActRequest(w http.ResponseWriter, r *http.Request) {
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
	action := chi.URLParam(r, "action")
	req, err := h.Requests.Act(r.Context(), scope, id, action)
	if err != nil {
		h.Logger.Error("ActRequest: service error", "error", err, "request_id", id, "action", action)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
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
	ticket, err := h.Requests.Delete(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	resource.Accepted(h.BaseHandler, w, ticket)
}

func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	page, err := h.Changes.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListChanges: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetChange(w http.ResponseWriter, r *http.Request) {
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
	c, err := h.Changes.Get(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) GetChangeDetail(w http.ResponseWriter, r *http.Request) {
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
	detail, err := h.Changes.Detail(r.Context(), scope, id)
	if err != nil {
		h.Logger.Error("GetChangeDetail: service error", "error", err, "change_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateChange(w http.ResponseWriter, r *http.Request) {
	user, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	var form ChangeForm
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	c, err := h.Changes.Create(r.Context(), scope, form)
	if err != nil {
		h.Logger.Error("CreateChange: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateChange(w http.ResponseWriter, r *http.Request) {
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
	var form ChangeForm
	if err := h.DecodeJSON(r, &form); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	c, err := h.Changes.Update(r.Context(), scope, id, form)
	if err != nil {
		h.Logger.Error("UpdateChange: service error", "error", err, "change_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ActChange(w http.ResponseWriter, r *http.Request) {
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
	action := chi.URLParam(r, "action")
	c, err := h.Changes.Act(r.Context(), scope, id, action)
	if err != nil {
		h.Logger.Error("ActChange: service error", "error", err, "change_id", id, "action", action)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteChange(w http.ResponseWriter, r *http.Request) {
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
	ticket, err := h.Changes.Delete(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	resource.Accepted(h.BaseHandler, w, ticket)
}
