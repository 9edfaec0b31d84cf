package ticket

import "time"

type Ticket struct {
	ID             int64      `gorm:"primaryKey"`
	TicketNumber   string     `gorm:"column:ticket_number;not null;uniqueIndex:idx_tickets_tenant_number"`
	Title          string     `gorm:"column:title;not null"`
	Description    *string    `gorm:"column:description"`
	Category       *string    `gorm:"column:category"`
	Status         string     `gorm:"column:status;not null;default:open"`
	Priority       string     `gorm:"column:priority;not null;default:medium"`
	AssignedTo     *int64     `gorm:"column:assigned_to"`
	RequesterID    int64      `gorm:"column:requester_id"`
	ResolvedAt     *time.Time `gorm:"column:resolved_at"`
	OrganisationID *int64     `gorm:"column:organisation_id;index"`
	TenantID       int64      `gorm:"column:tenant_id;not null;uniqueIndex:idx_tickets_tenant_number"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "helpdesk_tickets"
}
