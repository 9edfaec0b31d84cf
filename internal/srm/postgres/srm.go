package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
	"github.com/frahmantamala/helpdesk-console/internal/srm"
)

type RequestRepository struct {
	db    *gorm.DB
	table *store.Table[srmDatamodel.Request]
}

func NewRequestRepository(db *gorm.DB, policy resource.DeletePolicy) srm.RequestRepositoryAPI {
	return &RequestRepository{
		db: db,
		table: store.NewTable[srmDatamodel.Request](db, store.Options{
			Entity: resource.EntityServiceRequests,
			Policy: policy,
		}),
	}
}

func (r *RequestRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]srmDatamodel.Request, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *RequestRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*srmDatamodel.Request, error) {
	return r.table.Get(ctx, scope, id)
}

func (r *RequestRepository) Create(ctx context.Context, row *srmDatamodel.Request) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := store.NextNumber(tx, &srmDatamodel.Request{}, "request_number", "SR", row.TenantID)
		if err != nil {
			return err
		}
		row.RequestNumber = number
		return tx.Create(row).Error
	})
	return store.Translate(err)
}

func (r *RequestRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*srmDatamodel.Request, error) {
	return r.table.Update(ctx, scope, id, columns)
}

func (r *RequestRepository) Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*srmDatamodel.Request, error) {
	return r.table.Advance(ctx, scope, id, from, columns)
}

func (r *RequestRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	return r.table.Delete(ctx, scope, ids)
}

func (r *RequestRepository) Policy() resource.DeletePolicy {
	return r.table.Policy()
}

type ChangeRepository struct {
	db    *gorm.DB
	table *store.Table[srmDatamodel.Change]
}

func NewChangeRepository(db *gorm.DB, policy resource.DeletePolicy) srm.ChangeRepositoryAPI {
	return &ChangeRepository{
		db: db,
		table: store.NewTable[srmDatamodel.Change](db, store.Options{
			Entity: resource.EntityChangeRequests,
			Policy: policy,
		}),
	}
}

func (r *ChangeRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]srmDatamodel.Change, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *ChangeRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*srmDatamodel.Change, error) {
	return r.table.Get(ctx, scope, id)
}

func (r *ChangeRepository) Create(ctx context.Context, row *srmDatamodel.Change) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := store.NextNumber(tx, &srmDatamodel.Change{}, "change_number", "CHG", row.TenantID)
		if err != nil {
			return err
		}
		row.ChangeNumber = number
		return tx.Create(row).Error
	})
	return store.Translate(err)
}

func (r *ChangeRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*srmDatamodel.Change, error) {
	return r.table.Update(ctx, scope, id, columns)
}

func (r *ChangeRepository) Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*srmDatamodel.Change, error) {
	return r.table.Advance(ctx, scope, id, from, columns)
}

func (r *ChangeRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	return r.table.Delete(ctx, scope, ids)
}

func (r *ChangeRepository) Policy() resource.DeletePolicy {
	return r.table.Policy()
}
