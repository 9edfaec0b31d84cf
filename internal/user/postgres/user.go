package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/helpdesk-console/internal"
	userDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/user"
	"github.com/frahmantamala/helpdesk-console/internal/resource/store"
	"github.com/frahmantamala/helpdesk-console/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).Take(&u).Error; err != nil {
		return nil, store.Translate(err)
	}
	return &u, nil
}

func (r *Repository) ListActive(ctx context.Context, scope internal.Scope) ([]userDatamodel.User, error) {
	var users []userDatamodel.User
	err := store.ApplyScope(r.db.WithContext(ctx).Model(&userDatamodel.User{}), scope).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&users).Error
	if err != nil {
		return nil, store.Translate(err)
	}
	return users, nil
}
