package asset

import (
	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/validation"
	assetDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/asset"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

// Form carries the create and edit form. Every input is text; blank
// optional inputs clear the stored value.
type Form struct {
	Name               optional.Value[string] `json:"name"`
	AssetType          optional.Value[string] `json:"asset_type"`
	PurchaseDate       optional.Value[string] `json:"purchase_date"`
	PurchasePrice      optional.Value[string] `json:"purchase_price"`
	SalvageValue       optional.Value[string] `json:"salvage_value"`
	UsefulLifeYears    optional.Value[string] `json:"useful_life_years"`
	DepreciationMethod optional.Value[string] `json:"depreciation_method"`
	Status             optional.Value[string] `json:"status"`
}

// Validate checks the form. On edit, required fields are only checked
// when they are sent.
func (f Form) Validate(creating bool) error {
	v := validation.NewValidator()

	name := v.Field("name", f.Name)
	if creating || f.Name.Supplied() {
		name.Required()
	}
	name.MaxLength(255)

	v.Field("asset_type", f.AssetType).MaxLength(100)

	date := v.Field("purchase_date", f.PurchaseDate)
	if creating || f.PurchaseDate.Supplied() {
		date.Required()
	}
	date.Date()

	price := v.Field("purchase_price", f.PurchasePrice)
	if creating || f.PurchasePrice.Supplied() {
		price.Required()
	}
	price.Decimal().NonNegative()

	v.Field("salvage_value", f.SalvageValue).Decimal().NonNegative()
	v.Field("useful_life_years", f.UsefulLifeYears).Integer().NonNegative()
	v.Field("depreciation_method", f.DepreciationMethod).OneOf(DepreciationMethods...)
	v.Field("status", f.Status).OneOf(Statuses.Values()...)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// NewRow builds the row to insert. The current value starts at the
// purchase price.
func (f Form) NewRow(scope internal.Scope) (*assetDatamodel.Asset, error) {
	status, appErr := Statuses.Resolve(f.Status.OrElse(""))
	if appErr != nil {
		return nil, appErr
	}
	price, _ := validation.DecimalValue(f.PurchasePrice).Get()
	date, _ := validation.DateValue(f.PurchaseDate).Get()

	return &assetDatamodel.Asset{
		Name:               validation.TextValue(f.Name).OrElse(""),
		AssetType:          validation.TextValue(f.AssetType).Ptr(),
		PurchaseDate:       date,
		PurchasePrice:      price,
		CurrentValue:       &price,
		SalvageValue:       validation.DecimalValue(f.SalvageValue).Ptr(),
		UsefulLifeYears:    validation.IntegerValue(f.UsefulLifeYears).Ptr(),
		DepreciationMethod: validation.TextValue(f.DepreciationMethod).Ptr(),
		Status:             status,
		CreatedBy:          scope.UserID,
		OrganisationID:     scope.WriteOrganisation(),
		TenantID:           scope.WriteTenant(),
	}, nil
}

// Columns lists what an edit writes. current_value is never rewritten.
func (f Form) Columns() resource.Columns {
	cols := resource.Columns{}
	cols.Put("name", validation.TextValue(f.Name)).
		Put("asset_type", validation.TextValue(f.AssetType)).
		Put("purchase_date", validation.DateValue(f.PurchaseDate)).
		Put("purchase_price", validation.DecimalValue(f.PurchasePrice)).
		Put("salvage_value", validation.DecimalValue(f.SalvageValue)).
		Put("useful_life_years", validation.IntegerValue(f.UsefulLifeYears)).
		Put("depreciation_method", validation.TextValue(f.DepreciationMethod))
	if s, ok := optional.Blank(f.Status).Get(); ok {
		cols["status"] = s
	}
	return cols
}
