package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	kbDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/kb"
	"github.com/frahmantamala/helpdesk-console/internal/kb"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
)

type ArticleRepository struct {
	db    *gorm.DB
	table *store.Table[kbDatamodel.Article]
}

func NewArticleRepository(db *gorm.DB, policy resource.DeletePolicy) kb.RepositoryAPI {
	return &ArticleRepository{
		db: db,
		table: store.NewTable[kbDatamodel.Article](db, store.Options{
			Entity:           resource.EntityKBArticles,
			Policy:           policy,
			SoftDeleteColumn: "is_deleted",
		}),
	}
}

func (r *ArticleRepository) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]kbDatamodel.Article, error) {
	return r.table.List(ctx, scope, predicates)
}

func (r *ArticleRepository) GetByID(ctx context.Context, scope internal.Scope, id int64) (*kbDatamodel.Article, error) {
	return r.table.Get(ctx, scope, id)
}

func (r *ArticleRepository) Create(ctx context.Context, row *kbDatamodel.Article) error {
	return r.table.Create(ctx, row)
}

func (r *ArticleRepository) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*kbDatamodel.Article, error) {
	return r.table.Update(ctx, scope, id, columns)
}

func (r *ArticleRepository) Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*kbDatamodel.Article, error) {
	return r.table.Advance(ctx, scope, id, from, columns)
}

// Increment adds one to a counter in place, so concurrent readers never
// lose a count.
func (r *ArticleRepository) Increment(ctx context.Context, scope internal.Scope, id int64, counter kb.Counter) (*kbDatamodel.Article, error) {
	column := string(counter)
	var out kbDatamodel.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := store.ApplyScope(tx.Model(&kbDatamodel.Article{}), scope).
			Where("id = ? AND is_deleted = ?", id, false).
			UpdateColumn(column, gorm.Expr(column+" + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrNotFound
		}
		return tx.Where("id = ?", id).Take(&out).Error
	})
	if err != nil {
		return nil, store.Translate(err)
	}
	return &out, nil
}

func (r *ArticleRepository) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	return r.table.Delete(ctx, scope, ids)
}

func (r *ArticleRepository) Policy() resource.DeletePolicy {
	return r.table.Policy()
}
