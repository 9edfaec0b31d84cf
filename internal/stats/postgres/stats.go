package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/stats"
)

type StatsRepository struct {
	db      *sqlx.DB
	dialect goqu.DialectWrapper
}

// NewStatsRepository builds SQL for dialect ("postgres" or "sqlite3") and
// runs it on db.
func NewStatsRepository(db *sqlx.DB, dialect string) stats.RepositoryAPI {
	return &StatsRepository{
		db:      db,
		dialect: goqu.Dialect(dialect),
	}
}

func scoped(scope internal.Scope, source stats.Source) goqu.Ex {
	ex := goqu.Ex{}
	if scope.OrganisationID > 0 {
		ex["organisation_id"] = scope.OrganisationID
	} else {
		ex["tenant_id"] = scope.TenantID
	}
	if source.DeletedColumn != "" {
		ex[source.DeletedColumn] = false
	}
	return ex
}

type statusRow struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

func (r *StatsRepository) CountByStatus(ctx context.Context, scope internal.Scope, source stats.Source) (stats.StatusCounts, error) {
	query, args, err := r.dialect.From(source.Table).
		Prepared(true).
		Select(goqu.C("status"), goqu.COUNT(goqu.Star()).As("count")).
		Where(scoped(scope, source)).
		GroupBy("status").
		Order(goqu.C("status").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build status count query: %w", err)
	}

	var rows []statusRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to count %s by status: %w", source.Table, err)
	}
	out := make(stats.StatusCounts, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

type totalsRow struct {
	Count      int64   `db:"count"`
	TotalValue float64 `db:"total_value"`
}

func (r *StatsRepository) AssetTotals(ctx context.Context, scope internal.Scope) (stats.AssetStats, error) {
	query, args, err := r.dialect.From(stats.Assets.Table).
		Prepared(true).
		Select(
			goqu.COUNT(goqu.Star()).As("count"),
			goqu.COALESCE(goqu.SUM("current_value"), 0).As("total_value"),
		).
		Where(scoped(scope, stats.Assets)).
		ToSQL()
	if err != nil {
		return stats.AssetStats{}, fmt.Errorf("failed to build asset totals query: %w", err)
	}

	var row totalsRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return stats.AssetStats{}, fmt.Errorf("failed to total assets: %w", err)
	}
	return stats.AssetStats{Count: row.Count, TotalValue: row.TotalValue}, nil
}
