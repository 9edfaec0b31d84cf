package stats

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type RepositoryAPI interface {
	CountByStatus(ctx context.Context, scope internal.Scope, source Source) (StatusCounts, error)
	AssetTotals(ctx context.Context, scope internal.Scope) (AssetStats, error)
}

type Service struct {
	repo   RepositoryAPI
	cache  *resource.QueryCache
	logger *slog.Logger
}

// NewService reads through cache, which the owning modules invalidate on
// every write.
func NewService(repo RepositoryAPI, cache *resource.QueryCache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

func (s *Service) ITAM(ctx context.Context, scope internal.Scope) (ITAMStats, error) {
	if !scope.Resolved() {
		return ITAMStats{ByStatus: StatusCounts{}}, nil
	}
	key := resource.Key(resource.EntityITAMStats, scope, nil)
	out, err := resource.FetchAs(ctx, s.cache, key, func(ctx context.Context) (ITAMStats, error) {
		counts, err := s.repo.CountByStatus(ctx, scope, ITAMAssets)
		if err != nil {
			return ITAMStats{}, err
		}
		return ITAMStats{Total: counts.Total(), ByStatus: counts}, nil
	})
	if err != nil {
		s.logger.Error("failed to load itam stats", "error", err, "scope", scope.Key())
		return ITAMStats{}, err
	}
	return out, nil
}

func (s *Service) Helpdesk(ctx context.Context, scope internal.Scope) (HelpdeskStats, error) {
	if !scope.Resolved() {
		return HelpdeskStats{ByStatus: StatusCounts{}}, nil
	}
	key := resource.Key(resource.EntityHelpdeskStats, scope, nil)
	out, err := resource.FetchAs(ctx, s.cache, key, func(ctx context.Context) (HelpdeskStats, error) {
		counts, err := s.repo.CountByStatus(ctx, scope, HelpdeskTickets)
		if err != nil {
			return HelpdeskStats{}, err
		}
		return HelpdeskStats{
			Total:      counts.Total(),
			Open:       counts["open"],
			InProgress: counts["in_progress"],
			Resolved:   counts["resolved"],
			ByStatus:   counts,
		}, nil
	})
	if err != nil {
		s.logger.Error("failed to load helpdesk stats", "error", err, "scope", scope.Key())
		return HelpdeskStats{}, err
	}
	return out, nil
}

func (s *Service) Assets(ctx context.Context, scope internal.Scope) (AssetStats, error) {
	if !scope.Resolved() {
		return AssetStats{}, nil
	}
	key := resource.Key(resource.EntityAssetStats, scope, nil)
	out, err := resource.FetchAs(ctx, s.cache, key, func(ctx context.Context) (AssetStats, error) {
		return s.repo.AssetTotals(ctx, scope)
	})
	if err != nil {
		s.logger.Error("failed to load asset stats", "error", err, "scope", scope.Key())
		return AssetStats{}, err
	}
	return out, nil
}
