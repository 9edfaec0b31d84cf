package srm

import (
	"time"

	errors "github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/validation"
	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

// RequestForm edits a service request. Status moves through actions.
type RequestForm struct {
	Title       optional.Value[string] `json:"title"`
	Description optional.Value[string] `json:"description"`
	Category    optional.Value[string] `json:"category"`
	Priority    optional.Value[string] `json:"priority"`
}

func (f RequestForm) Validate(creating bool) error {
	v := validation.NewValidator()

	title := v.Field("title", f.Title)
	if creating || f.Title.Supplied() {
		title.Required()
	}
	title.MaxLength(255)

	v.Field("category", f.Category).MaxLength(100)
	v.Field("priority", f.Priority).OneOf(Priorities.Values()...)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (f RequestForm) NewRow(scope errors.Scope) (*srmDatamodel.Request, error) {
	priority, appErr := Priorities.Resolve(f.Priority.OrElse(""))
	if appErr != nil {
		return nil, appErr
	}
	return &srmDatamodel.Request{
		Title:          validation.TextValue(f.Title).OrElse(""),
		Description:    validation.TextValue(f.Description).Ptr(),
		Category:       validation.TextValue(f.Category).Ptr(),
		Status:         RequestStatuses.Initial(),
		Priority:       priority,
		RequesterID:    scope.UserID,
		OrganisationID: scope.WriteOrganisation(),
		TenantID:       scope.WriteTenant(),
	}, nil
}

func (f RequestForm) Columns() resource.Columns {
	cols := resource.Columns{}
	cols.Put("title", validation.TextValue(f.Title)).
		Put("description", validation.TextValue(f.Description)).
		Put("category", validation.TextValue(f.Category))
	if p, ok := optional.Blank(f.Priority).Get(); ok {
		cols["priority"] = p
	}
	return cols
}

// ChangeForm edits a change request. Status moves through actions.
type ChangeForm struct {
	Title              optional.Value[string] `json:"title"`
	Description        optional.Value[string] `json:"description"`
	ImplementationPlan optional.Value[string] `json:"implementation_plan"`
	RollbackPlan       optional.Value[string] `json:"rollback_plan"`
	RiskLevel          optional.Value[string] `json:"risk_level"`
	Impact             optional.Value[string] `json:"impact"`
	ScheduledStart     optional.Value[string] `json:"scheduled_start"`
	ScheduledEnd       optional.Value[string] `json:"scheduled_end"`
}

func (f ChangeForm) Validate(creating bool) error {
	v := validation.NewValidator()

	title := v.Field("title", f.Title)
	if creating || f.Title.Supplied() {
		title.Required()
	}
	title.MaxLength(255)

	v.Field("risk_level", f.RiskLevel).OneOf(Levels...)
	v.Field("impact", f.Impact).OneOf(Levels...)
	v.Field("scheduled_start", f.ScheduledStart).Timestamp()
	v.Field("scheduled_end", f.ScheduledEnd).Timestamp()

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Window resolves the schedule an edit would leave behind, falling back
// to the stored values for fields the form does not send.
func (f ChangeForm) Window(current *srmDatamodel.Change) (start, end *time.Time) {
	if current != nil {
		start, end = current.ScheduledStart, current.ScheduledEnd
	}
	if f.ScheduledStart.Supplied() {
		start = validation.TimestampValue(f.ScheduledStart).Ptr()
	}
	if f.ScheduledEnd.Supplied() {
		end = validation.TimestampValue(f.ScheduledEnd).Ptr()
	}
	return start, end
}

func checkWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errors.NewValidationFieldError("scheduled_end", "scheduled_end must not be before scheduled_start", errors.ErrCodeInvalidValue)
	}
	return nil
}

func (f ChangeForm) NewRow(scope errors.Scope) (*srmDatamodel.Change, error) {
	start, end := f.Window(nil)
	if err := checkWindow(start, end); err != nil {
		return nil, err
	}
	return &srmDatamodel.Change{
		Title:              validation.TextValue(f.Title).OrElse(""),
		Description:        validation.TextValue(f.Description).Ptr(),
		ImplementationPlan: validation.TextValue(f.ImplementationPlan).Ptr(),
		RollbackPlan:       validation.TextValue(f.RollbackPlan).Ptr(),
		RiskLevel:          validation.TextValue(f.RiskLevel).OrElse("medium"),
		Impact:             validation.TextValue(f.Impact).OrElse("medium"),
		ScheduledStart:     start,
		ScheduledEnd:       end,
		Status:             ChangeStatuses.Initial(),
		RequesterID:        scope.UserID,
		OrganisationID:     scope.WriteOrganisation(),
		TenantID:           scope.WriteTenant(),
	}, nil
}

func (f ChangeForm) Columns() resource.Columns {
	cols := resource.Columns{}
	cols.Put("title", validation.TextValue(f.Title)).
		Put("description", validation.TextValue(f.Description)).
		Put("implementation_plan", validation.TextValue(f.ImplementationPlan)).
		Put("rollback_plan", validation.TextValue(f.RollbackPlan)).
		Put("scheduled_start", validation.TimestampValue(f.ScheduledStart)).
		Put("scheduled_end", validation.TimestampValue(f.ScheduledEnd))
	if r, ok := optional.Blank(f.RiskLevel).Get(); ok {
		cols["risk_level"] = r
	}
	if i, ok := optional.Blank(f.Impact).Get(); ok {
		cols["impact"] = i
	}
	return cols
}
