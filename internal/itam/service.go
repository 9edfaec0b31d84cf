package itam

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	itamDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/itam"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]itamDatamodel.Asset, error)
	GetByID(ctx context.Context, scope internal.Scope, id int64) (*itamDatamodel.Asset, error)
	Create(ctx context.Context, row *itamDatamodel.Asset) error
	Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*itamDatamodel.Asset, error)
	Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error)
	Move(ctx context.Context, scope internal.Scope, id int64, m *Movement) (*itamDatamodel.Asset, error)
	History(ctx context.Context, assetID int64) ([]itamDatamodel.History, error)
	Assignments(ctx context.Context, assetID int64) ([]itamDatamodel.Assignment, error)
	Repairs(ctx context.Context, assetID int64) ([]itamDatamodel.Repair, error)
	Policy() resource.DeletePolicy
}

type Service struct {
	repo   RepositoryAPI
	deps   resource.Deps
	now    func() time.Time
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, deps resource.Deps, logger *slog.Logger) *Service {
	s := &Service{
		repo:   repo,
		deps:   deps,
		now:    time.Now,
		logger: logger,
	}
	deps.RegisterDeleter(resource.EntityITAMAssets, s.remove)
	return s
}

func (s *Service) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Asset], error) {
	filter, err := Filters.Parse(query)
	if err != nil {
		return resource.Page[*Asset]{}, err
	}
	if !scope.Resolved() {
		return resource.NewPage([]*Asset{}, filter), nil
	}

	key := resource.Key(resource.EntityITAMAssets, scope, filter.Params())
	assets, err := resource.FetchAs(ctx, s.deps.Cache, key, func(ctx context.Context) ([]*Asset, error) {
		rows, err := s.repo.List(ctx, scope, filter.Predicates)
		if err != nil {
			return nil, err
		}
		out := make([]*Asset, 0, len(rows))
		for i := range rows {
			out = append(out, FromDataModel(&rows[i]))
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error("failed to list inventory assets", "error", err, "scope", scope.Key())
		return resource.Page[*Asset]{}, err
	}
	return resource.NewPage(resource.Search(assets, filter.Search, (*Asset).searchable), filter), nil
}

func (s *Service) Get(ctx context.Context, scope internal.Scope, id int64) (*Asset, error) {
	row, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Asset], error) {
	load := func(ctx context.Context) (*Asset, error) {
		return s.Get(ctx, scope, id)
	}
	children := []resource.Child{
		{Name: "history", Load: func(ctx context.Context) (any, error) {
			rows, err := s.repo.History(ctx, id)
			if err != nil {
				return nil, err
			}
			return historyFromDataModel(rows), nil
		}},
		{Name: "assignments", Load: func(ctx context.Context) (any, error) {
			rows, err := s.repo.Assignments(ctx, id)
			if err != nil {
				return nil, err
			}
			return assignmentsFromDataModel(rows), nil
		}},
		{Name: "repairs", Load: func(ctx context.Context) (any, error) {
			rows, err := s.repo.Repairs(ctx, id)
			if err != nil {
				return nil, err
			}
			return repairsFromDataModel(rows), nil
		}},
	}

	detail, err := resource.LoadDetail(ctx, s.deps.DetailTimeout, load, children, Placeholders)
	if err != nil {
		return nil, err
	}
	if !detail.Entity.IsDeleted {
		detail.Actions = Transitions.Available(detail.Entity.Status)
	}
	return detail, nil
}

func (s *Service) Create(ctx context.Context, scope internal.Scope, form Form) (*Asset, error) {
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
		s.logger.Error("failed to create inventory asset", "error", err, "scope", scope.Key())
		return nil, err
	}

	s.logger.Info("inventory asset created", "asset_id", row.ID, "asset_tag", row.AssetTag, "user_id", scope.UserID)
	s.changed(ctx, scope, resource.ActionCreate, []int64{row.ID}, map[string]any{"asset_tag": row.AssetTag, "status": row.Status})
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, scope internal.Scope, id int64, form Form) (*Asset, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(false); err != nil {
		return nil, err
	}

	cols := form.Columns()
	row, err := s.repo.Update(ctx, scope, id, cols)
	if err != nil {
		s.logger.Error("failed to update inventory asset", "error", err, "asset_id", id)
		return nil, err
	}
	s.changed(ctx, scope, resource.ActionUpdate, []int64{id}, cols.Data())
	return FromDataModel(row), nil
}

// Act applies a status action such as assign or return.
func (s *Service) Act(ctx context.Context, scope internal.Scope, id int64, action string, form ActionForm) (*Asset, error) {
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

	m, err := form.Plan(action, current, scope.UserID, s.now())
	if err != nil {
		s.logger.Warn("rejected asset action", "asset_id", id, "action", action, "status", current.Status, "error", err)
		return nil, err
	}

	row, err := s.repo.Move(ctx, scope, id, m)
	if err != nil {
		s.logger.Error("failed to apply asset action", "error", err, "asset_id", id, "action", action)
		return nil, err
	}

	s.logger.Info("asset action applied", "asset_id", id, "action", action, "from", m.From, "to", m.To)
	s.changed(ctx, scope, action, []int64{id}, m.Columns)
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
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityITAMAssets, IDs: []int64{id}, Scope: scope})
}

func (s *Service) remove(ctx context.Context, subject resource.Subject) error {
	if _, err := s.repo.Delete(ctx, subject.Scope, subject.IDs); err != nil {
		s.logger.Error("failed to delete inventory assets", "error", err, "ids", subject.IDs)
		return err
	}
	s.changed(ctx, subject.Scope, resource.DeleteAction(s.repo.Policy(), len(subject.IDs) > 1), subject.IDs, nil)
	return nil
}

func (s *Service) changed(ctx context.Context, scope internal.Scope, action string, ids []int64, data map[string]any) {
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityITAMAssets,
		Action:      action,
		IDs:         ids,
		Scope:       scope,
		Data:        data,
		Invalidates: invalidates,
	})
}
