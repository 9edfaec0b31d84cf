package internal

import (
	"context"
	"fmt"
	"time"
)

type ctxKey string

const (
	ContextUserKey  ctxKey = "user"
	ContextScopeKey ctxKey = "scope"
)

// SessionUser is the authenticated caller as seen by the service layer.
type SessionUser struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	OrganisationID *int64 `json:"organisation_id,omitempty"`
	TenantID       *int64 `json:"tenant_id,omitempty"`
}

// Scope is the organisation/tenant partition every read and write is
// filtered by. The organisation wins when both are present.
type Scope struct {
	UserID         int64
	OrganisationID int64
	TenantID       int64
}

// ScopeFor derives the access scope of a session user.
func ScopeFor(u *SessionUser) Scope {
	if u == nil {
		return Scope{}
	}
	s := Scope{UserID: u.ID}
	if u.OrganisationID != nil {
		s.OrganisationID = *u.OrganisationID
	}
	if u.TenantID != nil {
		s.TenantID = *u.TenantID
	}
	return s
}

func (s Scope) Resolved() bool {
	return s.OrganisationID > 0 || s.TenantID > 0
}

// Key identifies the partition in cache keys and realtime channels.
func (s Scope) Key() string {
	if s.OrganisationID > 0 {
		return fmt.Sprintf("org:%d", s.OrganisationID)
	}
	if s.TenantID > 0 {
		return fmt.Sprintf("tenant:%d", s.TenantID)
	}
	return "none"
}

// WriteTenant is the tenant stamped on new rows; sessions scoped only by
// organisation fall back to the default tenant 1.
func (s Scope) WriteTenant() int64 {
	if s.TenantID > 0 {
		return s.TenantID
	}
	return 1
}

// WriteOrganisation is the organisation stamped on new rows, nil when unscoped.
func (s Scope) WriteOrganisation() *int64 {
	if s.OrganisationID > 0 {
		id := s.OrganisationID
		return &id
	}
	return nil
}

func UserFromContext(ctx context.Context) (*SessionUser, bool) {
	if ctx == nil {
		return nil, false
	}
	u, ok := ctx.Value(ContextUserKey).(*SessionUser)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *SessionUser) context.Context {
	ctx = context.WithValue(ctx, ContextUserKey, u)
	return context.WithValue(ctx, ContextScopeKey, ScopeFor(u))
}

func ScopeFromContext(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(ContextScopeKey).(Scope)
	return s
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
