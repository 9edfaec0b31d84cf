package kb

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
	List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Article], error)
	Get(ctx context.Context, scope internal.Scope, id int64) (*Article, error)
	Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Article], error)
	Create(ctx context.Context, scope internal.Scope, form Form) (*Article, error)
	Update(ctx context.Context, scope internal.Scope, id int64, form Form) (*Article, error)
	Act(ctx context.Context, scope internal.Scope, id int64, action string) (*Article, error)
	RecordView(ctx context.Context, scope internal.Scope, id int64) (*Article, error)
	MarkHelpful(ctx context.Context, scope internal.Scope, id int64) (*Article, error)
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

func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	_, scope, err := h.Session(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	page, err := h.Service.List(r.Context(), scope, r.URL.Query())
	if err != nil {
		h.Logger.Error("ListArticles: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
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
	article, err := h.Service.Get(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) GetArticleDetail(w http.ResponseWriter, r *http.Request) {
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
		h.Logger.Error("GetArticleDetail: service error", "error", err, "article_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
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
	article, err := h.Service.Create(r.Context(), scope, form)
	if err != nil {
		h.Logger.Error("CreateArticle: service error", "error", err, "user_id", user.ID)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, article)
}

func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
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
	article, err := h.Service.Update(r.Context(), scope, id, form)
	if err != nil {
		h.Logger.Error("UpdateArticle: service error", "error", err, "article_id", id)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) ActArticle(w http.ResponseWriter, r *http.Request) {
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
	article, err := h.Service.Act(r.Context(), scope, id, action)
	if err != nil {
		h.Logger.Error("ActArticle: service error", "error", err, "article_id", id, "action", action)
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) ViewArticle(w http.ResponseWriter, r *http.Request) {
	h.count(w, r, h.Service.RecordView)
}

func (h *Handler) HelpfulArticle(w http.ResponseWriter, r *http.Request) {
	h.count(w, r, h.Service.MarkHelpful)
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request, bump func(context.Context, internal.Scope, int64) (*Article, error)) {
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
	article, err := bump(r.Context(), scope, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, article)
}

func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
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
