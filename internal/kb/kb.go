package kb

import (
	"strings"
	"time"

	kbDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/kb"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	ActionPublish = "publish"
	ActionArchive = "archive"
)

var Statuses = resource.NewVocabulary("status", StatusDraft, StatusDraft, StatusPublished, StatusArchived)

var Transitions = resource.NewTransitions("article",
	resource.Transition{Action: ActionPublish, From: []string{StatusDraft, StatusArchived}, To: StatusPublished},
	resource.Transition{Action: ActionArchive, From: []string{StatusPublished}, To: StatusArchived},
)

var Filters = resource.FilterSpec{
	resource.StringParam("status", "status"),
	resource.StringParam("category", "category"),
}

var invalidates = []string{resource.EntityKBArticles}

type Article struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Category       *string    `json:"category"`
	Tags           []string   `json:"tags"`
	Status         string     `json:"status"`
	Views          int64      `json:"views"`
	Helpful        int64      `json:"helpful"`
	AuthorID       int64      `json:"author_id"`
	PublishedAt    *time.Time `json:"published_at"`
	OrganisationID *int64     `json:"organisation_id"`
	TenantID       int64      `json:"tenant_id"`
	IsDeleted      bool       `json:"is_deleted"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (a *Article) searchable() []string {
	return append([]string{a.Title, a.Content}, a.Tags...)
}

// SplitTags turns the stored comma separated list into trimmed tags.
func SplitTags(s *string) []string {
	tags := []string{}
	if s == nil {
		return tags
	}
	for _, t := range strings.Split(*s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// JoinTags normalises user input into the stored form.
func JoinTags(s string) string {
	return strings.Join(SplitTags(&s), ",")
}

func FromDataModel(a *kbDatamodel.Article) *Article {
	return &Article{
		ID:             a.ID,
		Title:          a.Title,
		Content:        a.Content,
		Category:       a.Category,
		Tags:           SplitTags(a.Tags),
		Status:         a.Status,
		Views:          a.Views,
		Helpful:        a.Helpful,
		AuthorID:       a.AuthorID,
		PublishedAt:    a.PublishedAt,
		OrganisationID: a.OrganisationID,
		TenantID:       a.TenantID,
		IsDeleted:      a.IsDeleted,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
