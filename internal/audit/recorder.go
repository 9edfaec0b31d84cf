package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	auditDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/audit"
	"github.com/frahmantamala/helpdesk-console/internal/core/events"
)

type Subscriber interface {
	Subscribe(eventType, name string, handler events.Handler) func()
}

// Recorder turns resource change events into audit rows.
type Recorder struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewRecorder(repo RepositoryAPI, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Attach subscribes the recorder and returns the unsubscribe function.
func (r *Recorder) Attach(bus Subscriber) func() {
	return bus.Subscribe(events.EventTypeResourceChanged, "audit.recorder", r.Handle)
}

func (r *Recorder) Handle(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.ResourceChangedEvent)
	if !ok {
		return fmt.Errorf("audit recorder: unexpected event %T", event)
	}
	if len(changed.IDs) == 0 {
		return nil
	}

	var payload datatypes.JSON
	if len(changed.Changes) > 0 {
		raw, err := json.Marshal(changed.Changes)
		if err != nil {
			return fmt.Errorf("audit recorder: encode changes: %w", err)
		}
		payload = datatypes.JSON(raw)
	}

	rows := make([]auditDatamodel.Log, 0, len(changed.IDs))
	for _, id := range changed.IDs {
		rows = append(rows, auditDatamodel.Log{
			ResourceType:   changed.Entity,
			ResourceID:     id,
			Action:         changed.Action,
			ActorID:        changed.ActorID,
			ScopeKey:       changed.ScopeKey,
			OrganisationID: changed.OrganisationID,
			TenantID:       changed.TenantID,
			Changes:        payload,
		})
	}
	if err := r.repo.CreateBatch(ctx, rows); err != nil {
		r.logger.Error("failed to record audit entries", "error", err, "entity", changed.Entity, "action", changed.Action)
		return err
	}
	r.logger.Debug("audit recorded", "entity", changed.Entity, "action", changed.Action, "rows", len(rows))
	return nil
}
