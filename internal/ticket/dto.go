package ticket

import (
	"time"

	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/validation"
	ticketDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type Form struct {
	Title       optional.Value[string] `json:"title"`
	Description optional.Value[string] `json:"description"`
	Category    optional.Value[string] `json:"category"`
	Status      optional.Value[string] `json:"status"`
	Priority    optional.Value[string] `json:"priority"`
	AssignedTo  optional.Value[string] `json:"assigned_to"`
}

func (f Form) Validate(creating bool) error {
	v := validation.NewValidator()

	title := v.Field("title", f.Title)
	if creating || f.Title.Supplied() {
		title.Required()
	}
	title.MaxLength(255)

	v.Field("category", f.Category).MaxLength(100)
	v.Field("status", f.Status).OneOf(Statuses.Values()...)
	v.Field("priority", f.Priority).OneOf(Priorities.Values()...)
	v.Field("assigned_to", f.AssignedTo).Integer()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (f Form) NewRow(scope internal.Scope, at time.Time) (*ticketDatamodel.Ticket, error) {
	status, appErr := Statuses.Resolve(f.Status.OrElse(""))
	if appErr != nil {
		return nil, appErr
	}
	priority, appErr := Priorities.Resolve(f.Priority.OrElse(""))
	if appErr != nil {
		return nil, appErr
	}

	row := &ticketDatamodel.Ticket{
		Title:          validation.TextValue(f.Title).OrElse(""),
		Description:    validation.TextValue(f.Description).Ptr(),
		Category:       validation.TextValue(f.Category).Ptr(),
		Status:         status,
		Priority:       priority,
		AssignedTo:     validation.IntegerValue(f.AssignedTo).Ptr(),
		RequesterID:    scope.UserID,
		OrganisationID: scope.WriteOrganisation(),
		TenantID:       scope.WriteTenant(),
	}
	if status == StatusResolved {
		row.ResolvedAt = &at
	}
	return row, nil
}

// Columns lists what an edit writes. A status change also moves
// resolved_at.
func (f Form) Columns(at time.Time) resource.Columns {
	cols := resource.Columns{}
	cols.Put("title", validation.TextValue(f.Title)).
		Put("description", validation.TextValue(f.Description)).
		Put("category", validation.TextValue(f.Category)).
		Put("assigned_to", validation.IntegerValue(f.AssignedTo))
	if s, ok := optional.Blank(f.Status).Get(); ok {
		cols["status"] = s
		statusColumns(cols, s, at)
	}
	if p, ok := optional.Blank(f.Priority).Get(); ok {
		cols["priority"] = p
	}
	return cols
}

// BulkDelete is the body of POST /tickets/bulk/delete.
type BulkDelete struct {
	IDs []int64 `json:"ids"`
}
