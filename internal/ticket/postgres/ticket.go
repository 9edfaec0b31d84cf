package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	ticketDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
	"github.com/frahmantamala/helpdesk-console/internal/ticket"
)

const numberPrefix = "TKT"

type TicketRepository struct {
	db    *gorm.DB
	table *store.Table[ticketDatamodel.Ticket]
}

func NewTicketRepository(db *gorm.DB, policy resource.DeletePolicy) ticket.RepositoryAPI {
	return &TicketRepository{
		db: db,
		table: store.NewTable[ticketDatamodel.Ticket](db, store.Options{
			Entity: resource.EntityTickets,
			Policy: policy,
		}),
	}
}

func (r *TicketRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]ticketDatamodel.Ticket, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *TicketRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*ticketDatamodel.Ticket, error) {
	return r.table.Get(ctx, scope, id)
}

func (r *TicketRepository) Create(ctx context.Context, row *ticketDatamodel.Ticket) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := store.NextNumber(tx, &ticketDatamodel.Ticket{}, "ticket_number", numberPrefix, row.TenantID)
		if err != nil {
			return err
		}
		row.TicketNumber = number
		return tx.Create(row).Error
	})
	return store.Translate(err)
}

func (r *TicketRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*ticketDatamodel.Ticket, error) {
	return r.table.Update(ctx, scope, id, columns)
}

func (r *TicketRepository) BulkUpdate(ctx context.Context, scope internal.Scope, ids []int64, columns map[string]any) (int64, error) {
	return r.table.BulkUpdate(ctx, scope, ids, columns)
}

func (r *TicketRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	return r.table.Delete(ctx, scope, ids)
}

func (r *TicketRepository) Policy() resource.DeletePolicy {
	return r.table.Policy()
}
