package srm

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/helpdesk-console/internal"
	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type ChangeRepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]srmDatamodel.Change, error)
	GetByID(ctx context.Context, scope internal.Scope, id int64) (*srmDatamodel.Change, error)
	Create(ctx context.Context, row *srmDatamodel.Change) error
	Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*srmDatamodel.Change, error)
	Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*srmDatamodel.Change, error)
	Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error)
	Policy() resource.DeletePolicy
}

type ChangeService struct {
	repo    ChangeRepositoryAPI
	history resource.HistoryReader
	deps    resource.Deps
	logger  *slog.Logger
}

func NewChangeService(repo ChangeRepositoryAPI, history resource.HistoryReader, deps resource.Deps, logger *slog.Logger) *ChangeService {
	s := &ChangeService{
		repo:    repo,
		history: history,
		deps:    deps,
		logger:  logger,
	}
	deps.RegisterDeleter(resource.EntityChangeRequests, s.remove)
	return s
}

func (s *ChangeService) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Change], error) {
	filter, err := ChangeFilters.Parse(query)
	if err != nil {
		return resource.Page[*Change]{}, err
	}
	if !scope.Resolved() {
		return resource.NewPage([]*Change{}, filter), nil
	}

	key := resource.Key(resource.EntityChangeRequests, scope, filter.Params())
	changes, err := resource.FetchAs(ctx, s.deps.Cache, key, func(ctx context.Context) ([]*Change, error) {
		rows, err := s.repo.List(ctx, scope, filter.Predicates)
		if err != nil {
			return nil, err
		}
		out := make([]*Change, 0, len(rows))
		for i := range rows {
			out = append(out, ChangeFromDataModel(&rows[i]))
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error("failed to list change requests", "error", err, "scope", scope.Key())
		return resource.Page[*Change]{}, err
	}
	return resource.NewPage(resource.Search(changes, filter.Search, (*Change).searchable), filter), nil
}

func (s *ChangeService) Get(ctx context.Context, scope internal.Scope, id int64) (*Change, error) {
	row, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return ChangeFromDataModel(row), nil
}

func (s *ChangeService) Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Change], error) {
	load := func(ctx context.Context) (*Change, error) {
		return s.Get(ctx, scope, id)
	}
	children := []resource.Child{
		resource.HistoryChild(s.history, scope, resource.EntityChangeRequests, id),
	}
	detail, err := resource.LoadDetail(ctx, s.deps.DetailTimeout, load, children, nil)
	if err != nil {
		return nil, err
	}
	detail.Actions = ChangeTransitions.Available(detail.Entity.Status)
	return detail, nil
}

func (s *ChangeService) Create(ctx context.Context, scope internal.Scope, form ChangeForm) (*Change, error) {
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
		s.logger.Error("failed to create change request", "error", err, "scope", scope.Key())
		return nil, err
	}

	s.logger.Info("change request created", "change_id", row.ID, "change_number", row.ChangeNumber, "risk_level", row.RiskLevel)
	s.changed(ctx, scope, resource.ActionCreate, row.ID, map[string]any{"change_number": row.ChangeNumber, "status": row.Status})
	return ChangeFromDataModel(row), nil
}

// Update keeps the schedule window ordered, judged against the stored
// values for whichever end the form leaves out.
func (s *ChangeService) Update(ctx context.Context, scope internal.Scope, id int64, form ChangeForm) (*Change, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(false); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if err := checkWindow(form.Window(current)); err != nil {
		return nil, err
	}

	cols := form.Columns()
	row, err := s.repo.Update(ctx, scope, id, cols)
	if err != nil {
		s.logger.Error("failed to update change request", "error", err, "change_id", id)
		return nil, err
	}
	s.changed(ctx, scope, resource.ActionUpdate, id, cols.Data())
	return ChangeFromDataModel(row), nil
}

func (s *ChangeService) Act(ctx context.Context, scope internal.Scope, id int64, action string) (*Change, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	current, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	next, err := ChangeTransitions.Next(action, current.Status)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.Advance(ctx, scope, id, current.Status, map[string]any{"status": next})
	if err != nil {
		s.logger.Error("failed to apply change action", "error", err, "change_id", id, "action", action)
		return nil, err
	}

	s.logger.Info("change request moved", "change_id", id, "from", current.Status, "to", next)
	s.changed(ctx, scope, action, id, map[string]any{"from": current.Status, "to": next})
	return ChangeFromDataModel(row), nil
}

func (s *ChangeService) Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return resource.Ticket{}, err
	}
	if _, err := s.repo.GetByID(ctx, scope, id); err != nil {
		return resource.Ticket{}, err
	}
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityChangeRequests, IDs: []int64{id}, Scope: scope})
}

func (s *ChangeService) remove(ctx context.Context, subject resource.Subject) error {
	if _, err := s.repo.Delete(ctx, subject.Scope, subject.IDs); err != nil {
		s.logger.Error("failed to delete change requests", "error", err, "ids", subject.IDs)
		return err
	}
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityChangeRequests,
		Action:      resource.DeleteAction(s.repo.Policy(), len(subject.IDs) > 1),
		IDs:         subject.IDs,
		Scope:       subject.Scope,
		Invalidates: []string{resource.EntityChangeRequests},
	})
	return nil
}

func (s *ChangeService) changed(ctx context.Context, scope internal.Scope, action string, id int64, data map[string]any) {
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityChangeRequests,
		Action:      action,
		IDs:         []int64{id},
		Scope:       scope,
		Data:        data,
		Invalidates: []string{resource.EntityChangeRequests},
	})
}
