package audit

import (
	"time"

	"gorm.io/datatypes"
)

type Log struct {
	ID             int64          `gorm:"primaryKey"`
	ResourceType   string         `gorm:"column:resource_type;not null;index:idx_audit_logs_resource"`
	ResourceID     int64          `gorm:"column:resource_id;not null;index:idx_audit_logs_resource"`
	Action         string         `gorm:"column:action;not null"`
	ActorID        int64          `gorm:"column:actor_id"`
	ScopeKey       string         `gorm:"column:scope_key;not null"`
	OrganisationID *int64         `gorm:"column:organisation_id;index"`
	TenantID       *int64         `gorm:"column:tenant_id;index"`
	Changes        datatypes.JSON `gorm:"column:changes"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (Log) TableName() string {
	return "audit_logs"
}
