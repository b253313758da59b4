package listview

import "sort"

// Selection is an ephemeral set of entity identifiers scoped to one filtered
// view. It holds no reference to the entities themselves.
type Selection struct {
	ids map[uint]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[uint]struct{})}
}

// ToggleOne adds id to the selection, or removes it if already present.
func (s *Selection) ToggleOne(id uint) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ToggleAll selects every id in viewIDs, unless all of them are already
// selected, in which case they are all deselected.
func (s *Selection) ToggleAll(viewIDs []uint) {
	allSelected := len(viewIDs) > 0
	for _, id := range viewIDs {
		if _, ok := s.ids[id]; !ok {
			allSelected = false
			break
		}
	}

	if allSelected {
		for _, id := range viewIDs {
			delete(s.ids, id)
		}
		return
	}
	for _, id := range viewIDs {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[uint]struct{})
}

// Has reports whether id is selected.
func (s *Selection) Has(id uint) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the number of selected ids.
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in ascending order for deterministic dispatch.
func (s *Selection) IDs() []uint {
	out := make([]uint, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// retain drops every id not present in viewIDs.
func (s *Selection) retain(viewIDs []uint) {
	allowed := make(map[uint]struct{}, len(viewIDs))
	for _, id := range viewIDs {
		allowed[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := allowed[id]; !ok {
			delete(s.ids, id)
		}
	}
}
