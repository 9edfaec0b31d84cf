package resource

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
)

// BulkUpdate applies one value for one field to every selected id.
type BulkUpdate struct {
	IDs   []int64                `json:"ids"`
	Field string                 `json:"field"`
	Value optional.Value[string] `json:"value"`
}

// BulkField converts a submitted value into the column value to write.
// A nil result writes NULL.
type BulkField struct {
	Column  string
	Convert func(v optional.Value[string]) (any, *errors.AppError)
}

type BulkFields map[string]BulkField

// BulkPlan is a validated bulk update ready for the store.
type BulkPlan struct {
	Field     string
	Column    string
	Value     any
	Selection *Selection
}

type BulkResult struct {
	Field     string  `json:"field"`
	Updated   int64   `json:"updated"`
	IDs       []int64 `json:"ids"`
	Selection []int64 `json:"selection"`
}

func (f BulkFields) names() []string {
	out := make([]string, 0, len(f))
	for name := range f {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Plan validates the request against the fields a module allows.
func (b BulkUpdate) Plan(fields BulkFields) (*BulkPlan, error) {
	sel := NewSelection(b.IDs...)
	if sel.IsEmpty() {
		return nil, errors.ErrEmptySelection
	}
	field, ok := fields[b.Field]
	if !ok {
		return nil, errors.NewValidationFieldError("field",
			fmt.Sprintf("field must be one of %s", strings.Join(fields.names(), ", ")),
			errors.ErrCodeInvalidValue)
	}
	value, appErr := field.Convert(b.Value)
	if appErr != nil {
		return nil, appErr
	}
	return &BulkPlan{Field: b.Field, Column: field.Column, Value: value, Selection: sel}, nil
}

// Result reports a successful plan and clears its selection.
func (p *BulkPlan) Result(updated int64) BulkResult {
	ids := p.Selection.IDs()
	p.Selection.Clear()
	return BulkResult{Field: p.Field, Updated: updated, IDs: ids, Selection: p.Selection.IDs()}
}

// VocabularyField accepts only members of vocab.
func VocabularyField(column string, vocab Vocabulary) BulkField {
	return BulkField{
		Column: column,
		Convert: func(v optional.Value[string]) (any, *errors.AppError) {
			s, ok := v.Get()
			if !ok {
				return nil, errors.NewValidationFieldError("value", "value is required", errors.ErrCodeRequired)
			}
			if err := vocab.Validate(s); err != nil {
				return nil, err
			}
			return s, nil
		},
	}
}

// AssigneeField accepts a user id; null, blank or the word "unassign"
// clears the column.
func AssigneeField(column string) BulkField {
	return BulkField{
		Column: column,
		Convert: func(v optional.Value[string]) (any, *errors.AppError) {
			s, ok := optional.Blank(v).Get()
			if !ok || strings.EqualFold(strings.TrimSpace(s), "unassign") {
				if v.IsAbsent() {
					return nil, errors.NewValidationFieldError("value", "value is required", errors.ErrCodeRequired)
				}
				return nil, nil
			}
			id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil || id <= 0 {
				return nil, errors.NewValidationFieldError("value", "value must be a user id or unassign", errors.ErrCodeInvalidInteger)
			}
			return id, nil
		},
	}
}
