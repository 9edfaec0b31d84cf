package asset

import (
	"time"

	assetDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/asset"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

const (
	StatusActive      = "active"
	StatusMaintenance = "maintenance"
	StatusRetired     = "retired"
	StatusDisposed    = "disposed"
)

var Statuses = resource.NewVocabulary("status", StatusActive,
	StatusActive, StatusMaintenance, StatusRetired, StatusDisposed)

var DepreciationMethods = []string{"straight_line", "declining_balance", "sum_of_years"}

// Filters are the list parameters pushed to the query.
var Filters = resource.FilterSpec{
	resource.StringParam("status", "status"),
	resource.StringParam("type", "asset_type"),
}

// invalidates lists the cache prefixes an asset write makes stale.
var invalidates = []string{resource.EntityAssets, resource.EntityAssetStats, resource.EntityITAMStats}

type Asset struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	AssetType          *string   `json:"asset_type"`
	PurchaseDate       time.Time `json:"purchase_date"`
	PurchasePrice      float64   `json:"purchase_price"`
	CurrentValue       *float64  `json:"current_value"`
	SalvageValue       *float64  `json:"salvage_value"`
	UsefulLifeYears    *int64    `json:"useful_life_years"`
	DepreciationMethod *string   `json:"depreciation_method"`
	Status             string    `json:"status"`
	CreatedBy          int64     `json:"created_by"`
	OrganisationID     *int64    `json:"organisation_id"`
	TenantID           int64     `json:"tenant_id"`
	IsDeleted          bool      `json:"is_deleted"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (a *Asset) searchable() []string {
	fields := []string{a.Name}
	if a.AssetType != nil {
		fields = append(fields, *a.AssetType)
	}
	return fields
}

func ToDataModel(a *Asset) *assetDatamodel.Asset {
	return &assetDatamodel.Asset{
		ID:                 a.ID,
		Name:               a.Name,
		AssetType:          a.AssetType,
		PurchaseDate:       a.PurchaseDate,
		PurchasePrice:      a.PurchasePrice,
		CurrentValue:       a.CurrentValue,
		SalvageValue:       a.SalvageValue,
		UsefulLifeYears:    a.UsefulLifeYears,
		DepreciationMethod: a.DepreciationMethod,
		Status:             a.Status,
		CreatedBy:          a.CreatedBy,
		OrganisationID:     a.OrganisationID,
		TenantID:           a.TenantID,
		IsDeleted:          a.IsDeleted,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func FromDataModel(a *assetDatamodel.Asset) *Asset {
	return &Asset{
		ID:                 a.ID,
		Name:               a.Name,
		AssetType:          a.AssetType,
		PurchaseDate:       a.PurchaseDate,
		PurchasePrice:      a.PurchasePrice,
		CurrentValue:       a.CurrentValue,
		SalvageValue:       a.SalvageValue,
		UsefulLifeYears:    a.UsefulLifeYears,
		DepreciationMethod: a.DepreciationMethod,
		Status:             a.Status,
		CreatedBy:          a.CreatedBy,
		OrganisationID:     a.OrganisationID,
		TenantID:           a.TenantID,
		IsDeleted:          a.IsDeleted,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
