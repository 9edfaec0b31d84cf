package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	itamDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/itam"
	"github.com/frahmantamala/helpdesk-console/internal/itam"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
)

const tagPrefix = "AST"

type ITAMRepository struct {
	db    *gorm.DB
	table *store.Table[itamDatamodel.Asset]
}

func NewITAMRepository(db *gorm.DB, policy resource.DeletePolicy) itam.RepositoryAPI {
	return &ITAMRepository{
		db: db,
		table: store.NewTable[itamDatamodel.Asset](db, store.Options{
			Entity:           resource.EntityITAMAssets,
			Policy:           policy,
			SoftDeleteColumn: "is_deleted",
		}),
	}
}

func (r *ITAMRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]itamDatamodel.Asset, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *ITAMRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*itamDatamodel.Asset, error) {
	return r.table.Get(ctx, scope, id)
}

// Create allocates the asset tag and records the first history entry in
// the same transaction as the insert.
func (r *ITAMRepository) Create(ctx context.Context, row *itamDatamodel.Asset) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tag, err := store.NextNumber(tx, &itamDatamodel.Asset{}, "asset_tag", tagPrefix, row.TenantID)
		if err != nil {
			return err
		}
		row.AssetTag = tag
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		status := row.Status
		return tx.Create(&itamDatamodel.History{
			AssetID:     row.ID,
			Action:      "created",
			ToStatus:    &status,
			PerformedBy: row.CreatedBy,
			PerformedAt: row.CreatedAt,
		}).Error
	})
	return store.Translate(err)
}

func (r *ITAMRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*itamDatamodel.Asset, error) {
	return r.table.Update(ctx, scope, id, columns)
}

func (r *ITAMRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	return r.table.Delete(ctx, scope, ids)
}

// Move applies a status action. The update only matches while the asset
// still holds the status the action was planned from.
func (r *ITAMRepository) Move(ctx context.Context, scope internal.Scope, id int64, m *itam.Movement) (*itamDatamodel.Asset, error) {
	var out itamDatamodel.Asset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := store.ApplyScope(tx.Model(&itamDatamodel.Asset{}), scope).
			Where("id = ? AND status = ? AND is_deleted = ?", id, m.From, false).
			Updates(m.Columns)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.NewConflictError("the asset changed while the action was in flight", internal.ErrCodeInvalidTransition)
		}

		if m.CloseAssignment {
			err := tx.Model(&itamDatamodel.Assignment{}).
				Where("asset_id = ? AND returned_at IS NULL", id).
				Update("returned_at", m.At).Error
			if err != nil {
				return err
			}
		}
		if m.AssignTo != nil {
			err := tx.Create(&itamDatamodel.Assignment{
				AssetID:    id,
				AssignedTo: *m.AssignTo,
				AssignedBy: m.ActorID,
				AssignedAt: m.At,
				Notes:      m.Notes,
			}).Error
			if err != nil {
				return err
			}
		}
		if m.Repair != nil {
			if err := tx.Create(m.Repair).Error; err != nil {
				return err
			}
		}

		from, to := m.From, m.To
		err := tx.Create(&itamDatamodel.History{
			AssetID:     id,
			Action:      m.Action,
			FromStatus:  &from,
			ToStatus:    &to,
			Notes:       m.Notes,
			PerformedBy: m.ActorID,
			PerformedAt: m.At,
		}).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Take(&out).Error
	})
	if err != nil {
		return nil, store.Translate(err)
	}
	return &out, nil
}

func (r *ITAMRepository) History(ctx context.Context, assetID int64) ([]itamDatamodel.History, error) {
	return store.Related[itamDatamodel.History](ctx, r.db, "asset_id", assetID, "performed_at")
}

func (r *ITAMRepository) Assignments(ctx context.Context, assetID int64) ([]itamDatamodel.Assignment, error) {
	return store.Related[itamDatamodel.Assignment](ctx, r.db, "asset_id", assetID, "assigned_at")
}

func (r *ITAMRepository) Repairs(ctx context.Context, assetID int64) ([]itamDatamodel.Repair, error) {
	return store.Related[itamDatamodel.Repair](ctx, r.db, "asset_id", assetID, "created_at")
}

func (r *ITAMRepository) Policy() resource.DeletePolicy {
	return r.table.Policy()
}
