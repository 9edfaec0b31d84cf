package kb

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	kbDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/kb"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

// Counter names the article counters readers can bump.
type Counter string

const (
	CounterViews   Counter = "views"
	CounterHelpful Counter = "helpful"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]kbDatamodel.Article, error)
	GetByID(ctx context.Context, scope internal.Scope, id int64) (*kbDatamodel.Article, error)
	Create(ctx context.Context, row *kbDatamodel.Article) error
	Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*kbDatamodel.Article, error)
	Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*kbDatamodel.Article, error)
	Increment(ctx context.Context, scope internal.Scope, id int64, counter Counter) (*kbDatamodel.Article, error)
	Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error)
	Policy() resource.DeletePolicy
}

type Service struct {
	repo    RepositoryAPI
	history resource.HistoryReader
	deps    resource.Deps
	now     func() time.Time
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, history resource.HistoryReader, deps resource.Deps, logger *slog.Logger) *Service {
	s := &Service{
		repo:    repo,
		history: history,
		deps:    deps,
		now:     time.Now,
		logger:  logger,
	}
	deps.RegisterDeleter(resource.EntityKBArticles, s.remove)
	return s
}

func (s *Service) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Article], error) {
	filter, err := Filters.Parse(query)
	if err != nil {
		return resource.Page[*Article]{}, err
	}
	if !scope.Resolved() {
		return resource.NewPage([]*Article{}, filter), nil
	}

	key := resource.Key(resource.EntityKBArticles, scope, filter.Params())
	articles, err := resource.FetchAs(ctx, s.deps.Cache, key, func(ctx context.Context) ([]*Article, error) {
		rows, err := s.repo.List(ctx, scope, filter.Predicates)
		if err != nil {
			return nil, err
		}
		out := make([]*Article, 0, len(rows))
		for i := range rows {
			out = append(out, FromDataModel(&rows[i]))
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error("failed to list articles", "error", err, "scope", scope.Key())
		return resource.Page[*Article]{}, err
	}
	return resource.NewPage(resource.Search(articles, filter.Search, (*Article).searchable), filter), nil
}

func (s *Service) Get(ctx context.Context, scope internal.Scope, id int64) (*Article, error) {
	row, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Article], error) {
	load := func(ctx context.Context) (*Article, error) {
		return s.Get(ctx, scope, id)
	}
	children := []resource.Child{
		resource.HistoryChild(s.history, scope, resource.EntityKBArticles, id),
	}
	detail, err := resource.LoadDetail(ctx, s.deps.DetailTimeout, load, children, nil)
	if err != nil {
		return nil, err
	}
	if !detail.Entity.IsDeleted {
		detail.Actions = Transitions.Available(detail.Entity.Status)
	}
	return detail, nil
}

func (s *Service) Create(ctx context.Context, scope internal.Scope, form Form) (*Article, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(true); err != nil {
		return nil, err
	}

	row := form.NewRow(scope)
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create article", "error", err, "scope", scope.Key())
		return nil, err
	}

	s.logger.Info("article created", "article_id", row.ID, "author_id", row.AuthorID)
	s.changed(ctx, scope, resource.ActionCreate, []int64{row.ID}, map[string]any{"title": row.Title, "status": row.Status})
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, scope internal.Scope, id int64, form Form) (*Article, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(false); err != nil {
		return nil, err
	}

	cols := form.Columns()
	row, err := s.repo.Update(ctx, scope, id, cols)
	if err != nil {
		s.logger.Error("failed to update article", "error", err, "article_id", id)
		return nil, err
	}
	s.changed(ctx, scope, resource.ActionUpdate, []int64{id}, cols.Data())
	return FromDataModel(row), nil
}

// Act publishes or archives an article. Publishing stamps published_at.
func (s *Service) Act(ctx context.Context, scope internal.Scope, id int64, action string) (*Article, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if current.IsDeleted {
		return nil, internal.ErrNotFound
	}
	next, err := Transitions.Next(action, current.Status)
	if err != nil {
		return nil, err
	}

	cols := map[string]any{"status": next}
	if next == StatusPublished {
		cols["published_at"] = s.now()
	}
	row, err := s.repo.Advance(ctx, scope, id, current.Status, cols)
	if err != nil {
		s.logger.Error("failed to apply article action", "error", err, "article_id", id, "action", action)
		return nil, err
	}

	s.changed(ctx, scope, action, []int64{id}, map[string]any{"from": current.Status, "to": next})
	return FromDataModel(row), nil
}

// RecordView counts one read of a published article.
func (s *Service) RecordView(ctx context.Context, scope internal.Scope, id int64) (*Article, error) {
	return s.bump(ctx, scope, id, CounterViews)
}

func (s *Service) MarkHelpful(ctx context.Context, scope internal.Scope, id int64) (*Article, error) {
	return s.bump(ctx, scope, id, CounterHelpful)
}

func (s *Service) bump(ctx context.Context, scope internal.Scope, id int64, counter Counter) (*Article, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	row, err := s.repo.Increment(ctx, scope, id, counter)
	if err != nil {
		s.logger.Error("failed to bump article counter", "error", err, "article_id", id, "counter", counter)
		return nil, err
	}
	// Counters are not audited; the cached lists only need to go stale.
	if s.deps.Cache != nil {
		s.deps.Cache.Invalidate(resource.EntityKBArticles)
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return resource.Ticket{}, err
	}
	row, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return resource.Ticket{}, err
	}
	if row.IsDeleted {
		return resource.Ticket{}, internal.ErrNotFound
	}
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityKBArticles, IDs: []int64{id}, Scope: scope})
}

func (s *Service) remove(ctx context.Context, subject resource.Subject) error {
	if _, err := s.repo.Delete(ctx, subject.Scope, subject.IDs); err != nil {
		s.logger.Error("failed to delete articles", "error", err, "ids", subject.IDs)
		return err
	}
	s.changed(ctx, subject.Scope, resource.DeleteAction(s.repo.Policy(), len(subject.IDs) > 1), subject.IDs, nil)
	return nil
}

func (s *Service) changed(ctx context.Context, scope internal.Scope, action string, ids []int64, data map[string]any) {
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityKBArticles,
		Action:      action,
		IDs:         ids,
		Scope:       scope,
		Data:        data,
		Invalidates: invalidates,
	})
}
