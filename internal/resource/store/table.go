// Package store implements the list/get/create/update/delete contract of
// a resource module over a gorm model.
package store

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type Options struct {
	Entity string
	Policy resource.DeletePolicy
	// SoftDeleteColumn names the boolean flag column, empty when the table
	// has none.
	SoftDeleteColumn string
}

// Table is a scoped view of one gorm model R.
type Table[R any] struct {
	db   *gorm.DB
	opts Options
}

func NewTable[R any](db *gorm.DB, opts Options) *Table[R] {
	if opts.Policy == resource.SoftDelete && opts.SoftDeleteColumn == "" {
		opts.Policy = resource.HardDelete
	}
	return &Table[R]{db: db, opts: opts}
}

func (t *Table[R]) DB() *gorm.DB {
	return t.db
}

func (t *Table[R]) Entity() string {
	return t.opts.Entity
}

func (t *Table[R]) Policy() resource.DeletePolicy {
	return t.opts.Policy
}

// ApplyScope restricts a query to the caller's organisation, or to the
// tenant when no organisation is set.
func ApplyScope(db *gorm.DB, scope internal.Scope) *gorm.DB {
	if scope.OrganisationID > 0 {
		return db.Where(clause.Eq{Column: clause.Column{Name: "organisation_id"}, Value: scope.OrganisationID})
	}
	return db.Where(clause.Eq{Column: clause.Column{Name: "tenant_id"}, Value: scope.TenantID})
}

func (t *Table[R]) scoped(db *gorm.DB, scope internal.Scope) *gorm.DB {
	return ApplyScope(db.Model(new(R)), scope)
}

// live hides soft-deleted rows.
func (t *Table[R]) live(db *gorm.DB) *gorm.DB {
	if t.opts.SoftDeleteColumn == "" {
		return db
	}
	return db.Where(clause.Eq{Column: clause.Column{Name: t.opts.SoftDeleteColumn}, Value: false})
}

// List returns the scoped rows matching predicates, newest first.
// Soft-deleted rows are excluded.
func (t *Table[R]) List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]R, error) {
	rows := []R{}
	if !scope.Resolved() {
		return rows, nil
	}

	q := t.live(t.scoped(t.db.WithContext(ctx), scope))
	columns := make([]string, 0, len(predicates))
	for col := range predicates {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		q = q.Where(clause.Eq{Column: clause.Column{Name: col}, Value: predicates[col]})
	}

	err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	if err != nil {
		return nil, Translate(err)
	}
	return rows, nil
}

// Get returns one scoped row, soft-deleted or not.
func (t *Table[R]) Get(ctx context.Context, scope internal.Scope, id int64) (*R, error) {
	if !scope.Resolved() {
		return nil, internal.ErrNotFound
	}
	var row R
	err := t.scoped(t.db.WithContext(ctx), scope).Where("id = ?", id).Take(&row).Error
	if err != nil {
		return nil, Translate(err)
	}
	return &row, nil
}

func (t *Table[R]) Create(ctx context.Context, row *R) error {
	return Translate(t.db.WithContext(ctx).Create(row).Error)
}

// Update writes only the given columns and returns the refreshed row.
func (t *Table[R]) Update(ctx context.Context, scope internal.Scope, id int64, columns map[string]any) (*R, error) {
	if !scope.Resolved() {
		return nil, internal.ErrScopeUnresolved
	}
	var out R
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing R
		if err := t.scoped(tx, scope).Where("id = ?", id).Take(&existing).Error; err != nil {
			return err
		}
		if len(columns) > 0 {
			if err := tx.Model(&existing).Updates(columns).Error; err != nil {
				return err
			}
		}
		return tx.Model(new(R)).Where("id = ?", id).Take(&out).Error
	})
	if err != nil {
		return nil, Translate(err)
	}
	return &out, nil
}

// Advance writes columns only while the row's status column still holds
// from. A row that moved on in the meantime is a conflict.
func (t *Table[R]) Advance(ctx context.Context, scope internal.Scope, id int64, from string, columns map[string]any) (*R, error) {
	if !scope.Resolved() {
		return nil, internal.ErrScopeUnresolved
	}
	var out R
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := t.live(t.scoped(tx, scope)).Where("id = ? AND status = ?", id, from).Updates(columns)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.NewConflictError("the record changed while the action was in flight", internal.ErrCodeInvalidTransition)
		}
		return tx.Model(new(R)).Where("id = ?", id).Take(&out).Error
	})
	if err != nil {
		return nil, Translate(err)
	}
	return &out, nil
}

// Delete removes the rows, or flags them under the soft policy. Every id
// must resolve inside the scope or nothing is deleted.
func (t *Table[R]) Delete(ctx context.Context, scope internal.Scope, ids []int64) (int64, error) {
	if !scope.Resolved() {
		return 0, internal.ErrScopeUnresolved
	}
	if len(ids) == 0 {
		return 0, internal.ErrEmptySelection
	}

	var affected int64
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := t.requireAll(tx, scope, ids); err != nil {
			return err
		}
		var res *gorm.DB
		if t.opts.Policy == resource.SoftDelete {
			res = t.live(t.scoped(tx, scope)).Where("id IN ?", ids).
				Updates(map[string]any{t.opts.SoftDeleteColumn: true})
		} else {
			res = ApplyScope(tx, scope).Where("id IN ?", ids).Delete(new(R))
		}
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, Translate(err)
	}
	return affected, nil
}

// BulkUpdate writes the same columns on every id in a single statement.
// The whole set must exist in scope; otherwise no row changes.
func (t *Table[R]) BulkUpdate(ctx context.Context, scope internal.Scope, ids []int64, columns map[string]any) (int64, error) {
	if !scope.Resolved() {
		return 0, internal.ErrScopeUnresolved
	}
	if len(ids) == 0 {
		return 0, internal.ErrEmptySelection
	}

	var affected int64
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := t.requireAll(tx, scope, ids); err != nil {
			return err
		}
		res := t.live(t.scoped(tx, scope)).Where("id IN ?", ids).Updates(columns)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, Translate(err)
	}
	return affected, nil
}

func (t *Table[R]) requireAll(tx *gorm.DB, scope internal.Scope, ids []int64) error {
	var count int64
	if err := t.live(t.scoped(tx, scope)).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return err
	}
	if count == int64(len(ids)) {
		return nil
	}
	if len(ids) == 1 {
		return internal.ErrNotFound
	}
	return internal.ErrSelectionMismatch
}

// Transaction runs fn with a table bound to the transaction.
func (t *Table[R]) Transaction(ctx context.Context, fn func(tx *Table[R]) error) error {
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Table[R]{db: tx, opts: t.opts})
	})
	return Translate(err)
}

// Related loads the child rows of parentID, newest first by orderColumn.
func Related[C any](ctx context.Context, db *gorm.DB, parentColumn string, parentID int64, orderColumn string) ([]C, error) {
	rows := []C{}
	err := db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: parentColumn}, Value: parentID}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderColumn}, Desc: true}).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, Translate(err)
	}
	return rows, nil
}

// NextNumber returns the next free "<prefix>-000001" style number within
// the tenant. Call it inside the transaction that inserts the row.
func NextNumber(tx *gorm.DB, model any, column, prefix string, tenantID int64) (string, error) {
	var count int64
	if err := tx.Model(model).Where("tenant_id = ?", tenantID).Count(&count).Error; err != nil {
		return "", Translate(err)
	}
	for n := count + 1; n < count+1000; n++ {
		candidate := fmt.Sprintf("%s-%06d", prefix, n)
		var taken int64
		err := tx.Model(model).
			Where("tenant_id = ?", tenantID).
			Where(clause.Eq{Column: clause.Column{Name: column}, Value: candidate}).
			Count(&taken).Error
		if err != nil {
			return "", Translate(err)
		}
		if taken == 0 {
			return candidate, nil
		}
	}
	return "", internal.NewInternalError("could not allocate a number", fmt.Errorf("%s numbers exhausted near %d", prefix, count))
}
