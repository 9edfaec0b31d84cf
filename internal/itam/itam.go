package itam

import (
	"time"

	itamDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/itam"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

const (
	StatusAvailable = "available"
	StatusAssigned  = "assigned"
	StatusInRepair  = "in_repair"
	StatusRetired   = "retired"
	StatusLost      = "lost"
	StatusDisposed  = "disposed"
)

const (
	ActionAssign       = "assign"
	ActionReturn       = "return"
	ActionSendToRepair = "send_to_repair"
	ActionRetire       = "retire"
)

const DefaultCurrency = "USD"

var Statuses = resource.NewVocabulary("status", StatusAvailable,
	StatusAvailable, StatusAssigned, StatusInRepair, StatusRetired, StatusLost, StatusDisposed)

var Transitions = resource.NewTransitions("asset",
	resource.Transition{Action: ActionAssign, From: []string{StatusAvailable}, To: StatusAssigned},
	resource.Transition{Action: ActionReturn, From: []string{StatusAssigned}, To: StatusAvailable},
	resource.Transition{Action: ActionSendToRepair, From: []string{StatusAvailable, StatusAssigned}, To: StatusInRepair},
	resource.Transition{Action: ActionRetire, From: []string{StatusAvailable, StatusInRepair}, To: StatusRetired},
)

var Filters = resource.FilterSpec{
	resource.StringParam("status", "status"),
	resource.StringParam("type", "type"),
}

// Placeholders are detail tabs with no data behind them yet.
var Placeholders = []string{"linking", "maintenance", "contracts", "reserve", "audit"}

var invalidates = []string{resource.EntityITAMAssets, resource.EntityITAMStats}

type Asset struct {
	ID             int64      `json:"id"`
	AssetTag       string     `json:"asset_tag"`
	Name           string     `json:"name"`
	Type           string     `json:"type"`
	Brand          *string    `json:"brand"`
	Model          *string    `json:"model"`
	Description    *string    `json:"description"`
	SerialNumber   *string    `json:"serial_number"`
	Category       *string    `json:"category"`
	Location       *string    `json:"location"`
	Department     *string    `json:"department"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	PurchasePrice  *float64   `json:"purchase_price"`
	Currency       string     `json:"currency"`
	Status         string     `json:"status"`
	AssignedTo     *int64     `json:"assigned_to"`
	CreatedBy      int64      `json:"created_by"`
	OrganisationID *int64     `json:"organisation_id"`
	TenantID       int64      `json:"tenant_id"`
	IsDeleted      bool       `json:"is_deleted"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a *Asset) searchable() []string {
	fields := []string{a.Name, a.AssetTag}
	if a.SerialNumber != nil {
		fields = append(fields, *a.SerialNumber)
	}
	return fields
}

type HistoryEntry struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	FromStatus  *string   `json:"from_status"`
	ToStatus    *string   `json:"to_status"`
	Notes       *string   `json:"notes"`
	PerformedBy int64     `json:"performed_by"`
	PerformedAt time.Time `json:"performed_at"`
}

type Assignment struct {
	ID         int64      `json:"id"`
	AssignedTo int64      `json:"assigned_to"`
	AssignedBy int64      `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReturnedAt *time.Time `json:"returned_at"`
	Notes      *string    `json:"notes"`
}

type Repair struct {
	ID          int64      `json:"id"`
	Issue       string     `json:"issue"`
	Vendor      *string    `json:"vendor"`
	Status      string     `json:"status"`
	Cost        *float64   `json:"cost"`
	ReportedBy  int64      `json:"reported_by"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromDataModel(a *itamDatamodel.Asset) *Asset {
	return &Asset{
		ID:             a.ID,
		AssetTag:       a.AssetTag,
		Name:           a.Name,
		Type:           a.Type,
		Brand:          a.Brand,
		Model:          a.Model,
		Description:    a.Description,
		SerialNumber:   a.SerialNumber,
		Category:       a.Category,
		Location:       a.Location,
		Department:     a.Department,
		PurchaseDate:   a.PurchaseDate,
		PurchasePrice:  a.PurchasePrice,
		Currency:       a.Currency,
		Status:         a.Status,
		AssignedTo:     a.AssignedTo,
		CreatedBy:      a.CreatedBy,
		OrganisationID: a.OrganisationID,
		TenantID:       a.TenantID,
		IsDeleted:      a.IsDeleted,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func historyFromDataModel(rows []itamDatamodel.History) []HistoryEntry {
	out := make([]HistoryEntry, 0, len(rows))
	for _, h := range rows {
		out = append(out, HistoryEntry{
			ID:          h.ID,
			Action:      h.Action,
			FromStatus:  h.FromStatus,
			ToStatus:    h.ToStatus,
			Notes:       h.Notes,
			PerformedBy: h.PerformedBy,
			PerformedAt: h.PerformedAt,
		})
	}
	return out
}

func assignmentsFromDataModel(rows []itamDatamodel.Assignment) []Assignment {
	out := make([]Assignment, 0, len(rows))
	for _, a := range rows {
		out = append(out, Assignment{
			ID:         a.ID,
			AssignedTo: a.AssignedTo,
			AssignedBy: a.AssignedBy,
			AssignedAt: a.AssignedAt,
			ReturnedAt: a.ReturnedAt,
			Notes:      a.Notes,
		})
	}
	return out
}

func repairsFromDataModel(rows []itamDatamodel.Repair) []Repair {
	out := make([]Repair, 0, len(rows))
	for _, r := range rows {
		out = append(out, Repair{
			ID:          r.ID,
			Issue:       r.Issue,
			Vendor:      r.Vendor,
			Status:      r.Status,
			Cost:        r.Cost,
			ReportedBy:  r.ReportedBy,
			CompletedAt: r.CompletedAt,
			CreatedAt:   r.CreatedAt,
		})
	}
	return out
}
