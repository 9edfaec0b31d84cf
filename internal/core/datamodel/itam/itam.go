package itam

import "time"

type Asset struct {
	ID             int64      `gorm:"primaryKey"`
	AssetTag       string     `gorm:"column:asset_tag;not null;uniqueIndex:idx_itam_assets_tenant_tag"`
	Name           string     `gorm:"column:name;not null"`
	Type           string     `gorm:"column:type;not null"`
	Brand          *string    `gorm:"column:brand"`
	Model          *string    `gorm:"column:model"`
	Description    *string    `gorm:"column:description"`
	SerialNumber   *string    `gorm:"column:serial_number"`
	Category       *string    `gorm:"column:category"`
	Location       *string    `gorm:"column:location"`
	Department     *string    `gorm:"column:department"`
	PurchaseDate   *time.Time `gorm:"column:purchase_date;type:date"`
	PurchasePrice  *float64   `gorm:"column:purchase_price"`
	Currency       string     `gorm:"column:currency;not null;default:USD"`
	Status         string     `gorm:"column:status;not null;default:available"`
	AssignedTo     *int64     `gorm:"column:assigned_to"`
	CreatedBy      int64      `gorm:"column:created_by"`
	OrganisationID *int64     `gorm:"column:organisation_id;index"`
	TenantID       int64      `gorm:"column:tenant_id;not null;uniqueIndex:idx_itam_assets_tenant_tag"`
	IsDeleted      bool       `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Asset) TableName() string {
	return "itam_assets"
}

type History struct {
	ID          int64     `gorm:"primaryKey"`
	AssetID     int64     `gorm:"column:asset_id;not null;index"`
	Action      string    `gorm:"column:action;not null"`
	FromStatus  *string   `gorm:"column:from_status"`
	ToStatus    *string   `gorm:"column:to_status"`
	Notes       *string   `gorm:"column:notes"`
	PerformedBy int64     `gorm:"column:performed_by"`
	PerformedAt time.Time `gorm:"column:performed_at;not null"`
}

func (History) TableName() string {
	return "itam_asset_history"
}

type Assignment struct {
	ID         int64      `gorm:"primaryKey"`
	AssetID    int64      `gorm:"column:asset_id;not null;index"`
	AssignedTo int64      `gorm:"column:assigned_to;not null"`
	AssignedBy int64      `gorm:"column:assigned_by"`
	AssignedAt time.Time  `gorm:"column:assigned_at;not null"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
	Notes      *string    `gorm:"column:notes"`
}

func (Assignment) TableName() string {
	return "itam_asset_assignments"
}

type Repair struct {
	ID          int64      `gorm:"primaryKey"`
	AssetID     int64      `gorm:"column:asset_id;not null;index"`
	Issue       string     `gorm:"column:issue;not null"`
	Vendor      *string    `gorm:"column:vendor"`
	Status      string     `gorm:"column:status;not null;default:open"`
	Cost        *float64   `gorm:"column:cost"`
	ReportedBy  int64      `gorm:"column:reported_by"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Repair) TableName() string {
	return "itam_repairs"
}
