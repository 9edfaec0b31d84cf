package srm

import "time"

type Request struct {
	ID             int64      `gorm:"primaryKey"`
	RequestNumber  string     `gorm:"column:request_number;not null;uniqueIndex:idx_srm_requests_tenant_number"`
	Title          string     `gorm:"column:title;not null"`
	Description    *string    `gorm:"column:description"`
	Category       *string    `gorm:"column:category"`
	Status         string     `gorm:"column:status;not null;default:pending"`
	Priority       string     `gorm:"column:priority;not null;default:medium"`
	RequesterID    int64      `gorm:"column:requester_id"`
	FulfilledAt    *time.Time `gorm:"column:fulfilled_at"`
	OrganisationID *int64     `gorm:"column:organisation_id;index"`
	TenantID       int64      `gorm:"column:tenant_id;not null;uniqueIndex:idx_srm_requests_tenant_number"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "srm_requests"
}

type Change struct {
	ID                 int64      `gorm:"primaryKey"`
	ChangeNumber       string     `gorm:"column:change_number;not null;uniqueIndex:idx_change_requests_tenant_number"`
	Title              string     `gorm:"column:title;not null"`
	Description        *string    `gorm:"column:description"`
	ImplementationPlan *string    `gorm:"column:implementation_plan"`
	RollbackPlan       *string    `gorm:"column:rollback_plan"`
	RiskLevel          string     `gorm:"column:risk_level;not null;default:medium"`
	Impact             string     `gorm:"column:impact;not null;default:medium"`
	ScheduledStart     *time.Time `gorm:"column:scheduled_start"`
	ScheduledEnd       *time.Time `gorm:"column:scheduled_end"`
	Status             string     `gorm:"column:status;not null;default:draft"`
	RequesterID        int64      `gorm:"column:requester_id"`
	OrganisationID     *int64     `gorm:"column:organisation_id;index"`
	TenantID           int64      `gorm:"column:tenant_id;not null;uniqueIndex:idx_change_requests_tenant_number"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Change) TableName() string {
	return "change_requests"
}
