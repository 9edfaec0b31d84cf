package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/helpdesk-console/internal"
	userDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/user"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error)
	ListActive(ctx context.Context, scope internal.Scope) ([]userDatamodel.User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return FromDataModel(u), nil
}

// ListActive returns the assignable users of the caller's partition,
// ordered by name.
func (s *Service) ListActive(ctx context.Context, scope internal.Scope) ([]*User, error) {
	out := []*User{}
	if !scope.Resolved() {
		return out, nil
	}
	rows, err := s.repo.ListActive(ctx, scope)
	if err != nil {
		s.logger.Error("failed to list users", "error", err, "scope", scope.Key())
		return nil, err
	}
	for i := range rows {
		out = append(out, FromDataModel(&rows[i]))
	}
	return out, nil
}
