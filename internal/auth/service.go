package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/helpdesk-console/internal"
	userDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/user"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

// Service is the main auth service with dependencies
type Service struct {
	users      UserRepository
	tokens     TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(users UserRepository, tokens TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate checks the credentials and issues an access token. Unknown
// emails and wrong passwords look the same to the caller.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return AuthTokens{}, internal.ErrInvalidCredentials
		}
		return AuthTokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to sign access token", err)
	}
	s.logger.Info("user logged in", "user_id", u.ID)
	return AuthTokens{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt}, nil
}

// Authorize resolves a bearer token to the active session user.
func (s *Service) Authorize(ctx context.Context, token string) (*internal.SessionUser, error) {
	if token == "" {
		return nil, internal.ErrMissingSession
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, internal.ErrNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return &internal.SessionUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		OrganisationID: u.OrganisationID,
		TenantID:       u.TenantID,
	}, nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
