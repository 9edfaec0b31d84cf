package resource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/helpdesk-console/internal"
)

// Subject names what a confirmation will destroy.
type Subject struct {
	Entity string
	IDs    []int64
	Scope  internal.Scope
}

// Deleter removes the subject's rows once the user confirms.
type Deleter func(ctx context.Context, subject Subject) error

// Ticket is the client-facing view of a confirmation.
type Ticket struct {
	Token     string       `json:"confirmation_id"`
	State     ConfirmState `json:"state"`
	Entity    string       `json:"entity"`
	IDs       []int64      `json:"ids"`
	Count     int          `json:"count"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type pending struct {
	subject   Subject
	machine   *Confirmation
	expiresAt time.Time
}

// Confirmations hands out tokens for pending destructive actions. A token
// is bound to the scope that created it and expires after ttl.
type Confirmations struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	pending  map[string]*pending
	deleters map[string]Deleter
	logger   *slog.Logger
}

func NewConfirmations(ttl time.Duration, logger *slog.Logger) *Confirmations {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Confirmations{
		ttl:      ttl,
		now:      time.Now,
		pending:  make(map[string]*pending),
		deleters: make(map[string]Deleter),
		logger:   logger,
	}
}

// Register installs the deleter used for an entity.
func (c *Confirmations) Register(entity string, d Deleter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleters[entity] = d
}

func (c *Confirmations) ticket(token string, p *pending) Ticket {
	return Ticket{
		Token:     token,
		State:     p.machine.State(),
		Entity:    p.subject.Entity,
		IDs:       p.subject.IDs,
		Count:     len(p.subject.IDs),
		ExpiresAt: p.expiresAt,
	}
}

// Begin opens a confirmation in ConfirmPending.
func (c *Confirmations) Begin(subject Subject) (Ticket, error) {
	if !subject.Scope.Resolved() {
		return Ticket{}, internal.ErrScopeUnresolved
	}
	if len(subject.IDs) == 0 {
		return Ticket{}, internal.ErrEmptySelection
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.deleters[subject.Entity]; !ok {
		return Ticket{}, internal.NewInternalError("delete is not available", fmt.Errorf("no deleter registered for %s", subject.Entity))
	}
	c.sweep()

	machine := NewConfirmation()
	if err := machine.Request(); err != nil {
		return Ticket{}, err
	}
	token := uuid.NewString()
	p := &pending{subject: subject, machine: machine, expiresAt: c.now().Add(c.ttl)}
	c.pending[token] = p

	c.logger.Info("confirmation requested",
		"token", token,
		"entity", subject.Entity,
		"count", len(subject.IDs),
		"scope", subject.Scope.Key())
	return c.ticket(token, p), nil
}

// lookup must be called with mu held.
func (c *Confirmations) lookup(scope internal.Scope, token string) (*pending, error) {
	p, ok := c.pending[token]
	if !ok {
		return nil, internal.ErrConfirmationNotFound
	}
	if c.now().After(p.expiresAt) {
		delete(c.pending, token)
		return nil, internal.ErrConfirmationNotFound
	}
	if p.subject.Scope.Key() != scope.Key() {
		return nil, internal.ErrConfirmationNotFound
	}
	return p, nil
}

func (c *Confirmations) Get(scope internal.Scope, token string) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.lookup(scope, token)
	if err != nil {
		return Ticket{}, err
	}
	return c.ticket(token, p), nil
}

// Confirm runs the registered deleter. On failure the confirmation returns
// to ConfirmPending so it can be retried or cancelled.
func (c *Confirmations) Confirm(ctx context.Context, scope internal.Scope, token string) (Ticket, error) {
	c.mu.Lock()
	p, err := c.lookup(scope, token)
	if err != nil {
		c.mu.Unlock()
		return Ticket{}, err
	}
	if err := p.machine.Confirm(); err != nil {
		c.mu.Unlock()
		return Ticket{}, err
	}
	_ = p.machine.Begin()
	deleter := c.deleters[p.subject.Entity]
	c.mu.Unlock()

	deleteErr := deleter(ctx, p.subject)

	c.mu.Lock()
	defer c.mu.Unlock()
	_ = p.machine.Finish(deleteErr)
	if deleteErr != nil {
		c.logger.Warn("confirmed delete failed", "token", token, "entity", p.subject.Entity, "error", deleteErr)
		return c.ticket(token, p), deleteErr
	}
	delete(c.pending, token)
	c.logger.Info("confirmed delete completed", "token", token, "entity", p.subject.Entity, "count", len(p.subject.IDs))
	return c.ticket(token, p), nil
}

// Cancel drops a pending confirmation without calling the deleter.
func (c *Confirmations) Cancel(scope internal.Scope, token string) (Ticket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.lookup(scope, token)
	if err != nil {
		return Ticket{}, err
	}
	if err := p.machine.Cancel(); err != nil {
		return Ticket{}, err
	}
	delete(c.pending, token)
	return c.ticket(token, p), nil
}

// sweep drops expired tokens; mu must be held.
func (c *Confirmations) sweep() {
	now := c.now()
	for token, p := range c.pending {
		if now.After(p.expiresAt) && p.machine.State() == StateConfirmPending {
			delete(c.pending, token)
		}
	}
}
