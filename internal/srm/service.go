package srm

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type RequestRepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]srmDatamodel.Request, error)
	GetByID(ctx context.Context, scope internal.Scope, id int64) (*srmDatamodel.Request, error)
	Create(ctx context.Context, row *srmDatamodel.Request) error
	Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*srmDatamodel.Request, error)
	Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*srmDatamodel.Request, error)
	Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error)
	Policy() resource.DeletePolicy
}

type RequestService struct {
	repo    RequestRepositoryAPI
	history resource.HistoryReader
	deps    resource.Deps
	now     func() time.Time
	logger  *slog.Logger
}

func NewRequestService(repo RequestRepositoryAPI, history resource.HistoryReader, deps resource.Deps, logger *slog.Logger) *RequestService {
	s := &RequestService{
		repo:    repo,
		history: history,
		deps:    deps,
		now:     time.Now,
		logger:  logger,
	}
	deps.RegisterDeleter(resource.EntityServiceRequests, s.remove)
	return s
}

func (s *RequestService) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Request], error) {
	filter, err := RequestFilters.Parse(query)
	if err != nil {
		return resource.Page[*Request]{}, err
	}
	if !scope.Resolved() {
		return resource.NewPage([]*Request{}, filter), nil
	}

	key := resource.Key(resource.EntityServiceRequests, scope, filter.Params())
	requests, err := resource.FetchAs(ctx, s.deps.Cache, key, func(ctx context.Context) ([]*Request, error) {
		rows, err := s.repo.List(ctx, scope, filter.Predicates)
		if err != nil {
			return nil, err
		}
		out := make([]*Request, 0, len(rows))
		for i := range rows {
			out = append(out, RequestFromDataModel(&rows[i]))
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error("failed to list service requests", "error", err, "scope", scope.Key())
		return resource.Page[*Request]{}, err
	}
	return resource.NewPage(resource.Search(requests, filter.Search, (*Request).searchable), filter), nil
}

func (s *RequestService) Get(ctx context.Context, scope internal.Scope, id int64) (*Request, error) {
	row, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return RequestFromDataModel(row), nil
}

func (s *RequestService) Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Request], error) {
	load := func(ctx context.Context) (*Request, error) {
		return s.Get(ctx, scope, id)
	}
	children := []resource.Child{
		resource.HistoryChild(s.history, scope, resource.EntityServiceRequests, id),
	}
	detail, err := resource.LoadDetail(ctx, s.deps.DetailTimeout, load, children, nil)
	if err != nil {
		return nil, err
	}
	detail.Actions = RequestTransitions.Available(detail.Entity.Status)
	return detail, nil
}

func (s *RequestService) Create(ctx context.Context, scope internal.Scope, form RequestForm) (*Request, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(true); err != nil {
		return nil, err
	}
	row, err := form.NewRow(scope)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create service request", "error", err, "scope", scope.Key())
		return nil, err
	}

	s.logger.Info("service request created", "request_id", row.ID, "request_number", row.RequestNumber)
	s.changed(ctx, scope, resource.ActionCreate, row.ID, map[string]any{"request_number": row.RequestNumber, "status": row.Status})
	return RequestFromDataModel(row), nil
}

func (s *RequestService) Update(ctx context.Context, scope internal.Scope, id int64, form RequestForm) (*Request, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(false); err != nil {
		return nil, err
	}

	cols := form.Columns()
	row, err := s.repo.Update(ctx, scope, id, cols)
	if err != nil {
		s.logger.Error("failed to update service request", "error", err, "request_id", id)
		return nil, err
	}
	s.changed(ctx, scope, resource.ActionUpdate, id, cols.Data())
	return RequestFromDataModel(row), nil
}

// Act moves a request along its lifecycle. Fulfilling stamps fulfilled_at.
func (s *RequestService) Act(ctx context.Context, scope internal.Scope, id int64, action string) (*Request, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	next, err := RequestTransitions.Next(action, current.Status)
	if err != nil {
		return nil, err
	}

	cols := map[string]any{"status": next}
	if next == RequestFulfilled {
		cols["fulfilled_at"] = s.now()
	}
	row, err := s.repo.Advance(ctx, scope, id, current.Status, cols)
	if err != nil {
		s.logger.Error("failed to apply request action", "error", err, "request_id", id, "action", action)
		return nil, err
	}

	s.logger.Info("service request moved", "request_id", id, "from", current.Status, "to", next)
	s.changed(ctx, scope, action, id, map[string]any{"from": current.Status, "to": next})
	return RequestFromDataModel(row), nil
}

func (s *RequestService) Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return resource.Ticket{}, err
	}
	if _, err := s.repo.GetByID(ctx, scope, id); err != nil {
		return resource.Ticket{}, err
	}
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityServiceRequests, IDs: []int64{id}, Scope: scope})
}

func (s *RequestService) remove(ctx context.Context, subject resource.Subject) error {
	if _, err := s.repo.Delete(ctx, subject.Scope, subject.IDs); err != nil {
		s.logger.Error("failed to delete service requests", "error", err, "ids", subject.IDs)
		return err
	}
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityServiceRequests,
		Action:      resource.DeleteAction(s.repo.Policy(), len(subject.IDs) > 1),
		IDs:         subject.IDs,
		Scope:       subject.Scope,
		Invalidates: []string{resource.EntityServiceRequests},
	})
	return nil
}

func (s *RequestService) changed(ctx context.Context, scope internal.Scope, action string, id int64, data map[string]any) {
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityServiceRequests,
		Action:      action,
		IDs:         []int64{id},
		Scope:       scope,
		Data:        data,
		Invalidates: []string{resource.EntityServiceRequests},
	})
}
