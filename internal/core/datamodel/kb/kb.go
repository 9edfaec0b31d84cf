package kb

import "time"

type Article struct {
	ID             int64      `gorm:"primaryKey"`
	Title          string     `gorm:"column:title;not null"`
	Content        string     `gorm:"column:content;not null"`
	Category       *string    `gorm:"column:category"`
	Tags           *string    `gorm:"column:tags"`
	Status         string     `gorm:"column:status;not null;default:draft"`
	Views          int64      `gorm:"column:views;not null;default:0"`
	Helpful        int64      `gorm:"column:helpful;not null;default:0"`
	AuthorID       int64      `gorm:"column:author_id"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	OrganisationID *int64     `gorm:"column:organisation_id;index"`
	TenantID       int64      `gorm:"column:tenant_id;not null;index"`
	IsDeleted      bool       `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Article) TableName() string {
	return "kb_articles"
}
