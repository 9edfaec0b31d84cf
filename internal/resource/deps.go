package resource

import (
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
)

// Deps bundles the shared collaborators every resource module needs.
type Deps struct {
	Cache         *QueryCache
	Notifier      *Notifier
	Confirmations *Confirmations
	Policies      Policies
	DetailTimeout time.Duration
}

// RequireScope fails writes from sessions without an organisation or tenant.
func RequireScope(scope internal.Scope) error {
	if !scope.Resolved() {
		return internal.ErrScopeUnresolved
	}
	return nil
}

// RegisterDeleter wires the function that runs once a delete of entity is
// confirmed.
func (d Deps) RegisterDeleter(entity string, del Deleter) {
	if d.Confirmations != nil {
		d.Confirmations.Register(entity, del)
	}
}

// RequestDelete opens a confirmation for subject.
func (d Deps) RequestDelete(subject Subject) (Ticket, error) {
	if d.Confirmations == nil {
		return Ticket{}, internal.NewInternalError("delete confirmations are not configured", nil)
	}
	return d.Confirmations.Begin(subject)
}

// DeleteAction names the audit action for a confirmed delete.
func DeleteAction(policy DeletePolicy, bulk bool) string {
	switch {
	case bulk:
		return ActionBulkDelete
	case policy == SoftDelete:
		return ActionSoftDelete
	default:
		return ActionDelete
	}
}
