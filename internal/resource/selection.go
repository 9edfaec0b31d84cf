package resource

import "sort"

// Selection is the set of row ids a bulk action applies to.
type Selection struct {
	ids map[int64]struct{}
}

func NewSelection(ids ...int64) *Selection {
	s := &Selection{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Selection) Add(id int64) {
	if s.ids == nil {
		s.ids = make(map[int64]struct{})
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Remove(id int64) {
	delete(s.ids, id)
}

// Toggle flips membership and reports whether id is now selected.
func (s *Selection) Toggle(id int64) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

func (s *Selection) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the selected ids in ascending order.
func (s *Selection) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) IsEmpty() bool {
	return len(s.ids) == 0
}

func (s *Selection) Clear() {
	s.ids = make(map[int64]struct{})
}
