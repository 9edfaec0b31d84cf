package audit

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/helpdesk-console/internal"
	auditDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/audit"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type RepositoryAPI interface {
	List(ctx context.Context, scope internal.Scope, predicates map[string]any) ([]auditDatamodel.Log, error)
	ForResource(ctx context.Context, scope internal.Scope, resourceType string, resourceID int64) ([]auditDatamodel.Log, error)
	CreateBatch(ctx context.Context, rows []auditDatamodel.Log) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List is never cached: rows are written by the recorder, which does not
// go through the notifier.
func (s *Service) List(ctx context.Context, scope internal.Scope, query url.Values) (resource.Page[*Log], error) {
	filter, err := Filters.Parse(query)
	if err != nil {
		return resource.Page[*Log]{}, err
	}
	if !scope.Resolved() {
		return resource.NewPage([]*Log{}, filter), nil
	}

	rows, err := s.repo.List(ctx, scope, filter.Predicates)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err, "scope", scope.Key())
		return resource.Page[*Log]{}, err
	}
	logs := make([]*Log, 0, len(rows))
	for i := range rows {
		logs = append(logs, FromDataModel(&rows[i]))
	}
	return resource.NewPage(resource.Search(logs, filter.Search, (*Log).searchable), filter), nil
}

// History implements resource.HistoryReader.
func (s *Service) History(ctx context.Context, scope internal.Scope, entity string, id int64) ([]resource.HistoryEntry, error) {
	if !scope.Resolved() {
		return []resource.HistoryEntry{}, nil
	}
	rows, err := s.repo.ForResource(ctx, scope, entity, id)
	if err != nil {
		return nil, err
	}
	out := make([]resource.HistoryEntry, 0, len(rows))
	for i := range rows {
		out = append(out, toHistory(&rows[i]))
	}
	return out, nil
}
