package ticket

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	ticketDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]ticketDatamodel.Ticket, error)
	GetByID(ctx context.Context, scope internal.Scope, id int64) (*ticketDatamodel.Ticket, error)
	Create(ctx context.Context, row *ticketDatamodel.Ticket) error
	Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*ticketDatamodel.Ticket, error)
	BulkUpdate(ctx context.Context, scope internal.Scope, ids []int64, columns map[string]any) (int64, error)
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
	deps.RegisterDeleter(resource.EntityTickets, s.remove)
	return s
}

func (s *Service) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Ticket], error) {
	filter, err := Filters.Parse(query)
	if err != nil {
		return resource.Page[*Ticket]{}, err
	}
	if !scope.Resolved() {
		return resource.NewPage([]*Ticket{}, filter), nil
	}

	key := resource.Key(resource.EntityTickets, scope, filter.Params())
	tickets, err := resource.FetchAs(ctx, s.deps.Cache, key, func(ctx context.Context) ([]*Ticket, error) {
		rows, err := s.repo.List(ctx, scope, filter.Predicates)
		if err != nil {
			return nil, err
		}
		out := make([]*Ticket, 0, len(rows))
		for i := range rows {
			out = append(out, FromDataModel(&rows[i]))
		}
		return out, nil
	})
	if err != nil {
		s.logger.Error("failed to list tickets", "error", err, "scope", scope.Key())
		return resource.Page[*Ticket]{}, err
	}
	return resource.NewPage(resource.Search(tickets, filter.Search, (*Ticket).searchable), filter), nil
}

func (s *Service) Get(ctx context.Context, scope internal.Scope, id int64) (*Ticket, error) {
	row, err := s.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Detail(ctx context.Context, scope internal.Scope, id int64) (*resource.Detail[*Ticket], error) {
	load := func(ctx context.Context) (*Ticket, error) {
		return s.Get(ctx, scope, id)
	}
	children := []resource.Child{
		resource.HistoryChild(s.history, scope, resource.EntityTickets, id),
	}
	return resource.LoadDetail(ctx, s.deps.DetailTimeout, load, children, nil)
}

func (s *Service) Create(ctx context.Context, scope internal.Scope, form Form) (*Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(true); err != nil {
		return nil, err
	}
	row, err := form.NewRow(scope, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create ticket", "error", err, "scope", scope.Key())
		return nil, err
	}

	s.logger.Info("ticket created", "ticket_id", row.ID, "ticket_number", row.TicketNumber, "priority", row.Priority)
	s.changed(ctx, scope, resource.ActionCreate, []int64{row.ID}, map[string]any{
		"ticket_number": row.TicketNumber,
		"status":        row.Status,
		"priority":      row.Priority,
	})
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, scope internal.Scope, id int64, form Form) (*Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return nil, err
	}
	if err := form.Validate(false); err != nil {
		return nil, err
	}

	cols := form.Columns(s.now())
	row, err := s.repo.Update(ctx, scope, id, cols)
	if err != nil {
		s.logger.Error("failed to update ticket", "error", err, "ticket_id", id)
		return nil, err
	}
	s.changed(ctx, scope, resource.ActionUpdate, []int64{id}, cols.Data())
	return FromDataModel(row), nil
}

// BulkUpdate applies one field to every selected ticket in a single write.
// On failure no ticket changes.
func (s *Service) BulkUpdate(ctx context.Context, scope internal.Scope, req resource.BulkUpdate) (resource.BulkResult, error) {
	if err := resource.RequireScope(scope); err != nil {
		return resource.BulkResult{}, err
	}
	plan, err := req.Plan(BulkFields)
	if err != nil {
		return resource.BulkResult{}, err
	}

	cols := map[string]any{plan.Column: plan.Value}
	if plan.Column == "status" {
		statusColumns(cols, plan.Value.(string), s.now())
	}

	ids := plan.Selection.IDs()
	n, err := s.repo.BulkUpdate(ctx, scope, ids, cols)
	if err != nil {
		s.logger.Error("bulk ticket update failed", "error", err, "field", plan.Field, "count", len(ids))
		return resource.BulkResult{}, err
	}

	s.logger.Info("tickets bulk updated", "field", plan.Field, "count", n)
	s.changed(ctx, scope, resource.ActionBulkUpdate, ids, map[string]any{plan.Field: plan.Value})
	return plan.Result(n), nil
}

func (s *Service) Delete(ctx context.Context, scope internal.Scope, id int64) (resource.Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return resource.Ticket{}, err
	}
	if _, err := s.repo.GetByID(ctx, scope, id); err != nil {
		return resource.Ticket{}, err
	}
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityTickets, IDs: []int64{id}, Scope: scope})
}

// BulkDelete opens one confirmation covering every selected ticket.
func (s *Service) BulkDelete(ctx context.Context, scope internal.Scope, ids []int64) (resource.Ticket, error) {
	if err := resource.RequireScope(scope); err != nil {
		return resource.Ticket{}, err
	}
	sel := resource.NewSelection(ids...)
	if sel.IsEmpty() {
		return resource.Ticket{}, internal.ErrEmptySelection
	}
	return s.deps.RequestDelete(resource.Subject{Entity: resource.EntityTickets, IDs: sel.IDs(), Scope: scope})
}

func (s *Service) remove(ctx context.Context, subject resource.Subject) error {
	n, err := s.repo.Delete(ctx, subject.Scope, subject.IDs)
	if err != nil {
		s.logger.Error("failed to delete tickets", "error", err, "ids", subject.IDs)
		return err
	}
	s.logger.Info("tickets deleted", "count", n)
	s.changed(ctx, subject.Scope, resource.DeleteAction(s.repo.Policy(), len(subject.IDs) > 1), subject.IDs, nil)
	return nil
}

func (s *Service) changed(ctx context.Context, scope internal.Scope, action string, ids []int64, data map[string]any) {
	s.deps.Notifier.Changed(ctx, resource.Change{
		Entity:      resource.EntityTickets,
		Action:      action,
		IDs:         ids,
		Scope:       scope,
		Data:        data,
		Invalidates: invalidates,
	})
}
