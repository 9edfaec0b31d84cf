package asset

import "time"

type Asset struct {
	ID                 int64     `gorm:"primaryKey"`
	Name               string    `gorm:"column:name;not null"`
	AssetType          *string   `gorm:"column:asset_type"`
	PurchaseDate       time.Time `gorm:"column:purchase_date;type:date;not null"`
	PurchasePrice      float64   `gorm:"column:purchase_price;not null"`
	CurrentValue       *float64  `gorm:"column:current_value"`
	SalvageValue       *float64  `gorm:"column:salvage_value"`
	UsefulLifeYears    *int64    `gorm:"column:useful_life_years"`
	DepreciationMethod *string   `gorm:"column:depreciation_method"`
	Status             string    `gorm:"column:status;not null;default:active"`
	CreatedBy          int64     `gorm:"column:created_by"`
	OrganisationID     *int64    `gorm:"column:organisation_id;index"`
	TenantID           int64     `gorm:"column:tenant_id;not null;index"`
	IsDeleted          bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Asset) TableName() string {
	return "assets"
}
