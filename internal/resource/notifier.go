package resource

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
)

// Actions recorded for a change.
const (
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionSoftDelete = "soft_delete"
	ActionBulkUpdate = "bulk_update"
	ActionBulkDelete = "bulk_delete"
)

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Change describes a successful write.
type Change struct {
	Entity      string
	Action      string
	IDs         []int64
	Scope       internal.Scope
	Data        map[string]any
	Invalidates []string
}

// Notifier invalidates cached queries after a write and announces it on
// the event bus.
type Notifier struct {
	cache  *QueryCache
	bus    Publisher
	logger *slog.Logger
}

func NewNotifier(cache *QueryCache, bus Publisher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{cache: cache, bus: bus, logger: logger}
}

func (n *Notifier) Changed(ctx context.Context, c Change) {
	if n == nil {
		return
	}
	keys := c.Invalidates
	if len(keys) == 0 {
		keys = []string{c.Entity}
	}
	if n.cache != nil {
		for _, prefix := range keys {
			n.cache.Invalidate(prefix)
		}
	}
	if n.bus == nil {
		return
	}

	ev := events.NewResourceChangedEvent(events.ResourceChange{
		Entity:         c.Entity,
		Action:         c.Action,
		IDs:            c.IDs,
		Keys:           keys,
		ScopeKey:       c.Scope.Key(),
		OrganisationID: c.Scope.WriteOrganisation(),
		TenantID:       tenantOf(c.Scope),
		ActorID:        c.Scope.UserID,
		Changes:        c.Data,
	})
	// Subscribers outlive the request that caused the change.
	if err := n.bus.Publish(context.WithoutCancel(ctx), ev); err != nil {
		n.logger.Error("failed to publish resource change", "entity", c.Entity, "action", c.Action, "error", err)
	}
}

func tenantOf(s internal.Scope) *int64 {
	if s.TenantID <= 0 {
		return nil
	}
	id := s.TenantID
	return &id
}
