package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal/auth"
	userDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/user"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.UserRepository {
	return &Repository{db: db}
}

// GetByEmail returns the user whatever its active flag; the service decides.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = ?", email).Take(&u).Error; err != nil {
		return nil, store.Translate(err)
	}
	return &u, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error; err != nil {
		return nil, store.Translate(err)
	}
	return &u, nil
}
