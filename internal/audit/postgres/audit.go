package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/audit"
	auditDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/audit"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
)

const entityAuditLogs = "audit-logs"

type AuditRepository struct {
	db    *gorm.DB
	table *store.Table[auditDatamodel.Log]
}

func NewAuditRepository(db *gorm.DB) audit.RepositoryAPI {
	return &AuditRepository{
		db:    db,
		table: store.NewTable[auditDatamodel.Log](db, store.Options{Entity: entityAuditLogs, Policy: resource.HardDelete}),
	}
}

func (r *AuditRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]auditDatamodel.Log, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *AuditRepository) ForResource(ctx context.Context, scope internal.Scope, resourceType string, resourceID int64) ([]auditDatamodel.Log, error) {
	var rows []auditDatamodel.Log
	err := store.ApplyScope(r.db.WithContext(ctx).Model(&auditDatamodel.Log{}), scope).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	return rows, nil
}

func (r *AuditRepository) CreateBatch(ctx context.Context, rows []auditDatamodel.Log) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return store.Translate(err)
	}
	return nil
}
