package ticket

import (
	"time"

	ticketDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/ticket"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusOnHold     = "on_hold"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	PriorityUrgent = "urgent"
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

var Statuses = resource.NewVocabulary("status", StatusOpen,
	StatusOpen, StatusInProgress, StatusOnHold, StatusResolved, StatusClosed)

var Priorities = resource.NewVocabulary("priority", PriorityMedium,
	PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow)

var Filters = resource.FilterSpec{
	resource.StringParam("status", "status"),
	resource.StringParam("priority", "priority"),
	resource.IntegerParam("assigned_to", "assigned_to"),
}

// BulkFields are the columns the bulk toolbar may set.
var BulkFields = resource.BulkFields{
	"status":      resource.VocabularyField("status", Statuses),
	"priority":    resource.VocabularyField("priority", Priorities),
	"assigned_to": resource.AssigneeField("assigned_to"),
}

var invalidates = []string{resource.EntityTickets, resource.EntityHelpdeskStats}

type Ticket struct {
	ID             int64      `json:"id"`
	TicketNumber   string     `json:"ticket_number"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Category       *string    `json:"category"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	AssignedTo     *int64     `json:"assigned_to"`
	RequesterID    int64      `json:"requester_id"`
	ResolvedAt     *time.Time `json:"resolved_at"`
	OrganisationID *int64     `json:"organisation_id"`
	TenantID       int64      `json:"tenant_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (t *Ticket) searchable() []string {
	fields := []string{t.Title, t.TicketNumber}
	if t.Description != nil {
		fields = append(fields, *t.Description)
	}
	return fields
}

// statusColumns adds the resolved_at stamp that goes with a status write.
func statusColumns(cols map[string]any, status string, at time.Time) {
	switch status {
	case StatusResolved:
		cols["resolved_at"] = at
	case StatusOpen, StatusInProgress, StatusOnHold:
		cols["resolved_at"] = nil
	}
}

func FromDataModel(t *ticketDatamodel.Ticket) *Ticket {
	return &Ticket{
		ID:             t.ID,
		TicketNumber:   t.TicketNumber,
		Title:          t.Title,
		Description:    t.Description,
		Category:       t.Category,
		Status:         t.Status,
		Priority:       t.Priority,
		AssignedTo:     t.AssignedTo,
		RequesterID:    t.RequesterID,
		ResolvedAt:     t.ResolvedAt,
		OrganisationID: t.OrganisationID,
		TenantID:       t.TenantID,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}
