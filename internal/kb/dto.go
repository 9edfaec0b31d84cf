package kb

import (
	"github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/validation"
	kbDatamodel "github.com/frahmantamala/helpdesk-console/internal/core/datamodel/kb"
	"github.com/frahmantamala/helpdesk-console/internal/resource"
)

// Form edits an article. Publishing and archiving go through actions.
type Form struct {
	Title    optional.Value[string] `json:"title"`
	Content  optional.Value[string] `json:"content"`
	Category optional.Value[string] `json:"category"`
	Tags     optional.Value[string] `json:"tags"`
}

func (f Form) Validate(creating bool) error {
	v := validation.NewValidator()

	title := v.Field("title", f.Title)
	if creating || f.Title.Supplied() {
		title.Required()
	}
	title.MaxLength(255)

	content := v.Field("content", f.Content)
	if creating || f.Content.Supplied() {
		content.Required()
	}

	v.Field("category", f.Category).MaxLength(100)
	v.Field("tags", f.Tags).MaxLength(500)

	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (f Form) tags() optional.Value[string] {
	return optional.Blank(optional.Map(validation.TextValue(f.Tags), JoinTags))
}

func (f Form) NewRow(scope internal.Scope) *kbDatamodel.Article {
	return &kbDatamodel.Article{
		Title:          validation.TextValue(f.Title).OrElse(""),
		Content:        validation.TextValue(f.Content).OrElse(""),
		Category:       validation.TextValue(f.Category).Ptr(),
		Tags:           f.tags().Ptr(),
		Status:         Statuses.Initial(),
		AuthorID:       scope.UserID,
		OrganisationID: scope.WriteOrganisation(),
		TenantID:       scope.WriteTenant(),
	}
}

func (f Form) Columns() resource.Columns {
	cols := resource.Columns{}
	return cols.Put("title", validation.TextValue(f.Title)).
		Put("content", validation.TextValue(f.Content)).
		Put("category", validation.TextValue(f.Category)).
		Put("tags", f.tags())
}
