package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeResourceChanged = "resource.changed"
)

// ResourceChangedEvent is published after every successful write to a
// resource module.
type ResourceChangedEvent struct {
	BaseEvent
	Entity         string         `json:"entity"`
	Action         string         `json:"action"`
	IDs            []int64        `json:"ids"`
	Keys           []string       `json:"keys"`
	ScopeKey       string         `json:"scope_key"`
	OrganisationID *int64         `json:"organisation_id,omitempty"`
	TenantID       *int64         `json:"tenant_id,omitempty"`
	ActorID        int64          `json:"actor_id"`
	Changes        map[string]any `json:"changes,omitempty"`
}

type ResourceChange struct {
	Entity         string
	Action         string
	IDs            []int64
	Keys           []string
	ScopeKey       string
	OrganisationID *int64
	TenantID       *int64
	ActorID        int64
	Changes        map[string]any
}

func NewResourceChangedEvent(c ResourceChange) *ResourceChangedEvent {
	return &ResourceChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeResourceChanged,
			Timestamp: time.Now().UTC(),
			Data: map[string]interface{}{
				"entity":    c.Entity,
				"action":    c.Action,
				"ids":       c.IDs,
				"scope_key": c.ScopeKey,
				"actor_id":  c.ActorID,
			},
		},
		Entity:         c.Entity,
		Action:         c.Action,
		IDs:            c.IDs,
		Keys:           c.Keys,
		ScopeKey:       c.ScopeKey,
		OrganisationID: c.OrganisationID,
		TenantID:       c.TenantID,
		ActorID:        c.ActorID,
		Changes:        c.Changes,
	}
}
