package resource

const (
	EmptyNoEntities = "no_entities"
	EmptyNoMatches  = "no_matches"
)

type Page[T any] struct {
	Items          []T    `json:"items"`
	Count          int    `json:"count"`
	FiltersApplied bool   `json:"filters_applied"`
	EmptyState     string `json:"empty_state,omitempty"`
}

// NewPage builds a list response. An empty page says whether the store is
// empty or the filters eliminated every row.
func NewPage[T any](items []T, f Filter) Page[T] {
	if items == nil {
		items = []T{}
	}
	p := Page[T]{Items: items, Count: len(items), FiltersApplied: f.Applied()}
	if len(items) == 0 {
		if p.FiltersApplied {
			p.EmptyState = EmptyNoMatches
		} else {
			p.EmptyState = EmptyNoEntities
		}
	}
	return p
}
