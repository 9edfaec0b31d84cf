package resource

import (
	"context"
	"encoding/json"
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
)

// HistoryEntry is one audit record shown on a detail history tab.
type HistoryEntry struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	ActorID   int64           `json:"actor_id"`
	Changes   json.RawMessage `json:"changes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HistoryReader returns the audit trail of one entity, newest first.
type HistoryReader interface {
	History(ctx context.Context, scope internal.Scope, entity string, id int64) ([]HistoryEntry, error)
}

// HistoryChild builds the detail tab backed by a HistoryReader. A nil
// reader yields an empty tab.
func HistoryChild(reader HistoryReader, scope internal.Scope, entity string, id int64) Child {
	return Child{
		Name: "history",
		Load: func(ctx context.Context) (any, error) {
			if reader == nil {
				return []HistoryEntry{}, nil
			}
			return reader.History(ctx, scope, entity, id)
		},
	}
}
