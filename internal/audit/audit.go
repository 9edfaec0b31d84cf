package audit

import (
	"encoding/json"
	"time"

	auditDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/audit"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

var Filters = resource.FilterSpec{
	resource.StringParam("resource_type", "resource_type"),
	resource.StringParam("action", "action"),
}

type Log struct {
	ID             int64           `json:"id"`
	ResourceType   string          `json:"resource_type"`
	ResourceID     int64           `json:"resource_id"`
	Action         string          `json:"action"`
	ActorID        int64           `json:"actor_id"`
	ScopeKey       string          `json:"scope_key"`
	OrganisationID *int64          `json:"organisation_id"`
	TenantID       *int64          `json:"tenant_id"`
	Changes        json.RawMessage `json:"changes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (l *Log) searchable() []string {
	return []string{l.Action, l.ResourceType}
}

func FromDataModel(l *auditDatamodel.Log) *Log {
	return &Log{
		ID:             l.ID,
		ResourceType:   l.ResourceType,
		ResourceID:     l.ResourceID,
		Action:         l.Action,
		ActorID:        l.ActorID,
		ScopeKey:       l.ScopeKey,
		OrganisationID: l.OrganisationID,
		TenantID:       l.TenantID,
		Changes:        json.RawMessage(l.Changes),
		CreatedAt:      l.CreatedAt,
	}
}

func toHistory(l *auditDatamodel.Log) resource.HistoryEntry {
	return resource.HistoryEntry{
		ID:        l.ID,
		Action:    l.Action,
		ActorID:   l.ActorID,
		Changes:   json.RawMessage(l.Changes),
		CreatedAt: l.CreatedAt,
	}
}
