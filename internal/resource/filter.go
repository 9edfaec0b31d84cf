package resource

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/helpdesk-console/internal"
)

// Param maps a list query parameter onto the column it filters.
type Param struct {
	Name    string
	Column  string
	Integer bool
}

func StringParam(name, column string) Param {
	return Param{Name: name, Column: column}
}

func IntegerParam(name, column string) Param {
	return Param{Name: name, Column: column, Integer: true}
}

// FilterSpec is the allow-list of query parameters a list endpoint accepts.
type FilterSpec []Param

// Filter holds the predicates pushed to the store and the free-text term
// applied after retrieval.
type Filter struct {
	Predicates map[string]any
	Search     string
	params     map[string]string
}

func NewFilter() Filter {
	return Filter{Predicates: map[string]any{}, params: map[string]string{}}
}

func isUnset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, "all")
}

// Parse reads the allowed parameters plus "search" from a query string.
// Empty values and "all" leave a parameter unset.
func (s FilterSpec) Parse(q url.Values) (Filter, error) {
	f := NewFilter()
	for _, p := range s {
		raw := q.Get(p.Name)
		if isUnset(raw) {
			continue
		}
		raw = strings.TrimSpace(raw)
		if p.Integer {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return Filter{}, errors.NewValidationFieldError(p.Name,
					fmt.Sprintf("%s must be a whole number", p.Name), errors.ErrCodeInvalidInteger)
			}
			f.Predicates[p.Column] = n
		} else {
			f.Predicates[p.Column] = raw
		}
		f.params[p.Name] = raw
	}
	f.Search = strings.TrimSpace(q.Get("search"))
	return f, nil
}

// With adds a predicate programmatically.
func (f Filter) With(param, column string, value any) Filter {
	if f.Predicates == nil {
		f.Predicates = map[string]any{}
	}
	if f.params == nil {
		f.params = map[string]string{}
	}
	f.Predicates[column] = value
	f.params[param] = fmt.Sprint(value)
	return f
}

// Applied reports whether any filter key is set.
func (f Filter) Applied() bool {
	return len(f.Predicates) > 0 || f.Search != ""
}

// Params returns the pushed-down parameters that identify the stored query.
func (f Filter) Params() map[string]string {
	out := make(map[string]string, len(f.params))
	for k, v := range f.params {
		out[k] = v
	}
	return out
}

// Search keeps the items whose fields contain term, ignoring case.
func Search[T any](items []T, term string, fields func(T) []string) []T {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		for _, field := range fields(item) {
			if strings.Contains(strings.ToLower(field), term) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}
