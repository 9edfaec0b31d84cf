package itam

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/validation"
	itamDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/itam"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

type Form struct {
	Name          optional.Value[string] `json:"name"`
	Type          optional.Value[string] `json:"type"`
	Brand         optional.Value[string] `json:"brand"`
	Model         optional.Value[string] `json:"model"`
	Description   optional.Value[string] `json:"description"`
	SerialNumber  optional.Value[string] `json:"serial_number"`
	Category      optional.Value[string] `json:"category"`
	Location      optional.Value[string] `json:"location"`
	Department    optional.Value[string] `json:"department"`
	PurchaseDate  optional.Value[string] `json:"purchase_date"`
	PurchasePrice optional.Value[string] `json:"purchase_price"`
	Currency      optional.Value[string] `json:"currency"`
	Status        optional.Value[string] `json:"status"`
	AssignedTo    optional.Value[string] `json:"assigned_to"`
}

func (f Form) Validate(creating bool) error {
	v := validation.NewValidator()

	name := v.Field("name", f.Name)
	kind := v.Field("type", f.Type)
	if creating || f.Name.Supplied() {
		name.Required()
	}
	if creating || f.Type.Supplied() {
		kind.Required()
	}
	name.MaxLength(255)
	kind.MaxLength(100)

	v.Field("brand", f.Brand).MaxLength(255)
	v.Field("model", f.Model).MaxLength(255)
	v.Field("serial_number", f.SerialNumber).MaxLength(255)
	v.Field("category", f.Category).MaxLength(255)
	v.Field("location", f.Location).MaxLength(255)
	v.Field("department", f.Department).MaxLength(255)

	v.Field("purchase_date", f.PurchaseDate).Date()
	v.Field("purchase_price", f.PurchasePrice).Decimal().NonNegative()
	v.Field("currency", f.Currency).Custom(func(value interface{}) *errors.AppError {
		s, ok := optional.Blank(f.Currency).Get()
		if ok && len(strings.TrimSpace(s)) != 3 {
			return errors.NewValidationFieldError("currency", "currency must be a three letter code", errors.ErrCodeInvalidValue)
		}
		return nil
	})
	status := v.Field("status", f.Status)
	assignee := v.Field("assigned_to", f.AssignedTo)
	if creating {
		status.OneOf(Statuses.Values()...).Custom(func(value interface{}) *errors.AppError {
			if s, ok := f.Status.Get(); ok && strings.TrimSpace(s) == StatusAssigned {
				return errors.NewValidationFieldError("status", "assets are assigned through the assign action", errors.ErrCodeInvalidStatus)
			}
			return nil
		})
		assignee.Custom(func(value interface{}) *errors.AppError {
			if _, ok := optional.Blank(f.AssignedTo).Get(); ok {
				return errors.NewValidationFieldError("assigned_to", "assets are assigned through the assign action", errors.ErrCodeInvalidValue)
			}
			return nil
		})
	} else {
		status.Custom(func(value interface{}) *errors.AppError {
			if f.Status.Supplied() {
				return errors.NewValidationFieldError("status", "status changes through asset actions", errors.ErrCodeInvalidStatus)
			}
			return nil
		})
		assignee.Custom(func(value interface{}) *errors.AppError {
			if f.AssignedTo.Supplied() {
				return errors.NewValidationFieldError("assigned_to", "the assignee changes through the assign and return actions", errors.ErrCodeInvalidValue)
			}
			return nil
		})
	}

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// NewRow builds the row to insert. The asset tag is allocated by the store.
func (f Form) NewRow(scope errors.Scope) (*itamDatamodel.Asset, error) {
	status, appErr := Statuses.Resolve(f.Status.OrElse(""))
	if appErr != nil {
		return nil, appErr
	}
	currency := strings.ToUpper(validation.TextValue(f.Currency).OrElse(DefaultCurrency))

	return &itamDatamodel.Asset{
		Name:           validation.TextValue(f.Name).OrElse(""),
		Type:           validation.TextValue(f.Type).OrElse(""),
		Brand:          validation.TextValue(f.Brand).Ptr(),
		Model:          validation.TextValue(f.Model).Ptr(),
		Description:    validation.TextValue(f.Description).Ptr(),
		SerialNumber:   validation.TextValue(f.SerialNumber).Ptr(),
		Category:       validation.TextValue(f.Category).Ptr(),
		Location:       validation.TextValue(f.Location).Ptr(),
		Department:     validation.TextValue(f.Department).Ptr(),
		PurchaseDate:   validation.DateValue(f.PurchaseDate).Ptr(),
		PurchasePrice:  validation.DecimalValue(f.PurchasePrice).Ptr(),
		Currency:       currency,
		Status:         status,
		CreatedBy:      scope.UserID,
		OrganisationID: scope.WriteOrganisation(),
		TenantID:       scope.WriteTenant(),
	}, nil
}

// Columns lists what an edit writes. Validate refuses status and assignee
// on edit; they change only through actions.
func (f Form) Columns() resource.Columns {
	cols := resource.Columns{}
	cols.Put("name", validation.TextValue(f.Name)).
		Put("type", validation.TextValue(f.Type)).
		Put("brand", validation.TextValue(f.Brand)).
		Put("model", validation.TextValue(f.Model)).
		Put("description", validation.TextValue(f.Description)).
		Put("serial_number", validation.TextValue(f.SerialNumber)).
		Put("category", validation.TextValue(f.Category)).
		Put("location", validation.TextValue(f.Location)).
		Put("department", validation.TextValue(f.Department)).
		Put("purchase_date", validation.DateValue(f.PurchaseDate)).
		Put("purchase_price", validation.DecimalValue(f.PurchasePrice))
	if c, ok := optional.Blank(f.Currency).Get(); ok {
		cols["currency"] = strings.ToUpper(strings.TrimSpace(c))
	}
	return cols
}

// ActionForm carries the inputs of a status action.
type ActionForm struct {
	AssignedTo optional.Value[int64]  `json:"assigned_to"`
	Notes      optional.Value[string] `json:"notes"`
	Issue      optional.Value[string] `json:"issue"`
	Vendor     optional.Value[string] `json:"vendor"`
}

// Movement is a validated status action ready for the store.
type Movement struct {
	Action  string
	From    string
	To      string
	Columns map[string]any
	ActorID int64
	Notes   *string
	At      time.Time
	// AssignTo opens an assignment for this user.
	AssignTo *int64
	// CloseAssignment stamps returned_at on the open assignment.
	CloseAssignment bool
	Repair          *itamDatamodel.Repair
}

// Plan validates action against the asset's current status and the form.
func (f ActionForm) Plan(action string, current *itamDatamodel.Asset, actorID int64, at time.Time) (*Movement, error) {
	next, err := Transitions.Next(action, current.Status)
	if err != nil {
		return nil, err
	}

	m := &Movement{
		Action:  action,
		From:    current.Status,
		To:      next,
		Columns: map[string]any{"status": next},
		ActorID: actorID,
		Notes:   validation.TextValue(f.Notes).Ptr(),
		At:      at,
	}

	switch action {
	case ActionAssign:
		user, ok := f.AssignedTo.Get()
		if !ok || user <= 0 {
			return nil, errors.NewValidationFieldError("assigned_to", "assigned_to is required to assign an asset", errors.ErrCodeRequired)
		}
		m.Columns["assigned_to"] = user
		m.AssignTo = &user
	case ActionReturn:
		m.Columns["assigned_to"] = nil
		m.CloseAssignment = true
	case ActionSendToRepair:
		issue, ok := validation.TextValue(f.Issue).Get()
		if !ok {
			issue = "sent to repair"
		}
		m.Repair = &itamDatamodel.Repair{
			AssetID:    current.ID,
			Issue:      issue,
			Vendor:     validation.TextValue(f.Vendor).Ptr(),
			Status:     "open",
			ReportedBy: actorID,
		}
		if current.Status == StatusAssigned {
			m.Columns["assigned_to"] = nil
			m.CloseAssignment = true
		}
	}
	return m, nil
}
