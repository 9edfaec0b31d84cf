package srm

import (
	"time"

	srmDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/srm"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

const (
	RequestPending    = "pending"
	RequestInProgress = "in_progress"
	RequestFulfilled  = "fulfilled"
	RequestRejected   = "rejected"
)

const (
	ChangeDraft      = "draft"
	ChangeSubmitted  = "submitted"
	ChangeApproved   = "approved"
	ChangeInProgress = "in_progress"
	ChangeCompleted  = "completed"
	ChangeFailed     = "failed"
)

const (
	ActionStart    = "start"
	ActionFulfil   = "fulfil"
	ActionReject   = "reject"
	ActionSubmit   = "submit"
	ActionApprove  = "approve"
	ActionComplete = "complete"
	ActionFail     = "fail"
)

var RequestStatuses = resource.NewVocabulary("status", RequestPending,
	RequestPending, RequestInProgress, RequestFulfilled, RequestRejected)

var RequestTransitions = resource.NewTransitions("request",
	resource.Transition{Action: ActionStart, From: []string{RequestPending}, To: RequestInProgress},
	resource.Transition{Action: ActionFulfil, From: []string{RequestInProgress}, To: RequestFulfilled},
	resource.Transition{Action: ActionReject, From: []string{RequestPending, RequestInProgress}, To: RequestRejected},
)

var ChangeStatuses = resource.NewVocabulary("status", ChangeDraft,
	ChangeDraft, ChangeSubmitted, ChangeApproved, ChangeInProgress, ChangeCompleted, ChangeFailed)

var ChangeTransitions = resource.NewTransitions("change",
	resource.Transition{Action: ActionSubmit, From: []string{ChangeDraft}, To: ChangeSubmitted},
	resource.Transition{Action: ActionApprove, From: []string{ChangeSubmitted}, To: ChangeApproved},
	resource.Transition{Action: ActionStart, From: []string{ChangeApproved}, To: ChangeInProgress},
	resource.Transition{Action: ActionComplete, From: []string{ChangeInProgress}, To: ChangeCompleted},
	resource.Transition{Action: ActionFail, From: []string{ChangeInProgress}, To: ChangeFailed},
)

var Priorities = resource.NewVocabulary("priority", "medium", "urgent", "high", "medium", "low")

// Levels grade both risk and impact.
var Levels = []string{"low", "medium", "high"}

var RequestFilters = resource.FilterSpec{
	resource.StringParam("status", "status"),
	resource.StringParam("priority", "priority"),
}

var ChangeFilters = resource.FilterSpec{
	resource.StringParam("status", "status"),
	resource.StringParam("risk_level", "risk_level"),
}

type Request struct {
	ID             int64      `json:"id"`
	RequestNumber  string     `json:"request_number"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Category       *string    `json:"category"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	RequesterID    int64      `json:"requester_id"`
	FulfilledAt    *time.Time `json:"fulfilled_at"`
	OrganisationID *int64     `json:"organisation_id"`
	TenantID       int64      `json:"tenant_id"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (r *Request) searchable() []string {
	fields := []string{r.Title, r.RequestNumber}
	if r.Description != nil {
		fields = append(fields, *r.Description)
	}
	return fields
}

type Change struct {
	ID                 int64      `json:"id"`
	ChangeNumber       string     `json:"change_number"`
	Title              string     `json:"title"`
	Description        *string    `json:"description"`
	ImplementationPlan *string    `json:"implementation_plan"`
	RollbackPlan       *string    `json:"rollback_plan"`
	RiskLevel          string     `json:"risk_level"`
	Impact             string     `json:"impact"`
	ScheduledStart     *time.Time `json:"scheduled_start"`
	ScheduledEnd       *time.Time `json:"scheduled_end"`
	Status             string     `json:"status"`
	RequesterID        int64      `json:"requester_id"`
	OrganisationID     *int64     `json:"organisation_id"`
	TenantID           int64      `json:"tenant_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (c *Change) searchable() []string {
	fields := []string{c.Title, c.ChangeNumber}
	if c.Description != nil {
		fields = append(fields, *c.Description)
	}
	return fields
}

func RequestFromDataModel(r *srmDatamodel.Request) *Request {
	return &Request{
		ID:             r.ID,
		RequestNumber:  r.RequestNumber,
		Title:          r.Title,
		Description:    r.Description,
		Category:       r.Category,
		Status:         r.Status,
		Priority:       r.Priority,
		RequesterID:    r.RequesterID,
		FulfilledAt:    r.FulfilledAt,
		OrganisationID: r.OrganisationID,
		TenantID:       r.TenantID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func ChangeFromDataModel(c *srmDatamodel.Change) *Change {
	return &Change{
		ID:                 c.ID,
		ChangeNumber:       c.ChangeNumber,
		Title:              c.Title,
		Description:        c.Description,
		ImplementationPlan: c.ImplementationPlan,
		RollbackPlan:       c.RollbackPlan,
		RiskLevel:          c.RiskLevel,
		Impact:             c.Impact,
		ScheduledStart:     c.ScheduledStart,
		ScheduledEnd:       c.ScheduledEnd,
		Status:             c.Status,
		RequesterID:        c.RequesterID,
		OrganisationID:     c.OrganisationID,
		TenantID:           c.TenantID,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}
