package asset

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/helpdesk-console/internal"
	assetDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/asset"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]assetDatamodel.Asset, error)
	GetByID(ctx context.Context, scope internal.Scope, id int64) (*assetDatamodel.Asset, error)
	Create(ctx context.Context, row *assetDatamodel.Asset) error
	Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*assetDatamodel.Asset, error)
	Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error)
	Policy() resource.DeletePolicy
}

type Service struct {
	repo    RepositoryAPI
	history resource.HistoryReader
	deps    resource.Deps
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, history resource.HistoryReader, deps resource.Deps, logger *slog.Logger) *Service {
	s := &Service{
		repo:    repo,
		history: history,
		deps:    deps,
		logger:  logger,
	}
	deps.RegisterDeleter(resource.EntityAssets, s.remove)
	return s
}

func (s *Service) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Asset], error) {
	filter, err := Filters.Parse(query)
	if err != nil {
		return resource.Page[*Asset]{}, err
	}
	if !scope.Resolved() {
		s.logger.Warn("asset list without scope", "user_id", scope.UserID)
		return resource.NewPage([]*Asset{}, filter), nil
	}

	key := resource.Key(resource.EntityAssets, scope, filter.Params())
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
		s.logger.Error("failed to list assets", "error", err, "scope", scope.Key())
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
		resource.HistoryChild(s.history, scope, resource.EntityAssets, id),
	}
	return resource.LoadDetail(ctx, s.deps.DetailTimeout, load, children, []string{"depreciation"})
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
		s.logger.Error("failed to create asset", "error", err, "scope", scope.Key())
		return nil, err
	}

	s.logger.Info("asset created", "asset_id", row.ID, "status", row.Status, "user_id", scope.UserID)
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityAssets,
		Action:      resource.ActionCreate,
		IDs:         []int64{row.ID},
		Scope:       scope,
		Data:        map[string]any{"name": row.Name, "status": row.Status, "purchase_price": row.PurchasePrice},
		Invalidates: invalidates,
	})
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
		s.logger.Error("failed to update asset", "error", err, "asset_id", id)
		return nil, err
	}

	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityAssets,
		Action:      resource.ActionUpdate,
		IDs:         []int64{id},
		Scope:       scope,
		Data:        cols.Data(),
		Invalidates: invalidates,
	})
	return FromDataModel(row), nil
}

// Delete opens a confirmation; nothing is removed until it is confirmed.
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
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityAssets, IDs: []int64{id}, Scope: scope})
}

func (s *Service) remove(ctx context.Context, subject resource.Subject) error {
	n, err := s.repo.Delete(ctx, subject.Scope, subject.IDs)
	if err != nil {
		s.logger.Error("failed to delete assets", "error", err, "ids", subject.IDs)
		return err
	}

	s.logger.Info("assets deleted", "count", n, "policy", s.repo.Policy())
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityAssets,
		Action:      resource.DeleteAction(s.repo.Policy(), len(subject.IDs) > 1),
		IDs:         subject.IDs,
		Scope:       subject.Scope,
		Invalidates: invalidates,
	})
	return nil
}
