package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/user"
)

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Department     string    `json:"department"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	OrganisationID *int64    `json:"organisation_id,omitempty"`
	TenantID       *int64    `json:"tenant_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Department:     u.Department,
		Role:           u.Role,
		IsActive:       u.IsActive,
		OrganisationID: u.OrganisationID,
		TenantID:       u.TenantID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
