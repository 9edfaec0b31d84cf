package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/asset"
	assetDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/asset"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
)

type AssetRepository struct {
	table *store.Table[assetDatamodel.Asset]
}

func NewAssetRepository(db *gorm.DB, policy resource.DeletePolicy) asset.RepositoryAPI {
	return &AssetRepository{
		table: store.NewTable[assetDatamodel.Asset](db, store.Options{
			Entity:           resource.EntityAssets,
			Policy:           policy,
			SoftDeleteColumn: "is_deleted",
		}),
	}
}

func (r *AssetRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]assetDatamodel.Asset, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *AssetRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*assetDatamodel.Asset, error) {
	return r.table.Get(ctx, scope, id)
}

func (r *AssetRepository) Create(ctx context.Context, row *assetDatamodel.Asset) error {
	return r.table.Create(ctx, row)
}

func (r *AssetRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*assetDatamodel.Asset, error) {
	return r.table.Update(ctx, scope, id, columns)
}

func (r *AssetRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	return r.table.Delete(ctx, scope, ids)
}

func (r *AssetRepository) Policy() resource.DeletePolicy {
	return r.table.Policy()
}
