package listview

// Session owns one view: the loaded collection, the active spec, and the
// selection over the current view. It enforces the invariant that the
// selection only ever refers to ids visible under the active spec.
// The HTTP handlers are stateless and call ApplyView per request; Session
// is the stateful counterpart for embedding clients that keep a collection
// loaded between interactions.
type Session[T any] struct {
	adapter   Adapter[T]
	items     []T
	spec      Spec
	selection *Selection
}

// NewSession creates a session with an empty collection and spec.
func NewSession[T any](adapter Adapter[T]) *Session[T] {
	return &Session[T]{
		adapter:   adapter,
		selection: NewSelection(),
	}
}

// Load replaces the collection wholesale, as happens after every
// create/update/delete/bulk cycle. The selection is cleared: the previous
// selection referred to records that may no longer exist.
func (s *Session[T]) Load(items []T) {
	s.items = items
	s.selection.Clear()
}

// SetSpec changes the active filter/sort spec. Any change clears the
// selection so the user can never act on items they no longer see.
func (s *Session[T]) SetSpec(spec Spec) {
	if s.spec.Equal(spec) {
		return
	}
	s.spec = spec
	s.selection.Clear()
}

// Spec returns the active spec.
func (s *Session[T]) Spec() Spec {
	return s.spec
}

// View derives the current ordered subset.
func (s *Session[T]) View() []T {
	return ApplyView(s.items, s.spec, s.adapter)
}

// ViewIDs returns the ids of the current view in view order.
func (s *Session[T]) ViewIDs() []uint {
	view := s.View()
	ids := make([]uint, len(view))
	for i, item := range view {
		ids[i] = s.adapter.ID(item)
	}
	return ids
}

// ToggleOne toggles one id. Ids outside the current view are ignored.
func (s *Session[T]) ToggleOne(id uint) {
	for _, visible := range s.ViewIDs() {
		if visible == id {
			s.selection.ToggleOne(id)
			return
		}
	}
}

// ToggleAll toggles the entire current view.
func (s *Session[T]) ToggleAll() {
	s.selection.ToggleAll(s.ViewIDs())
}

// ClearSelection empties the selection, as required after a bulk run.
func (s *Session[T]) ClearSelection() {
	s.selection.Clear()
}

// SelectedIDs returns the selected ids, restricted to the current view.
func (s *Session[T]) SelectedIDs() []uint {
	s.selection.retain(s.ViewIDs())
	return s.selection.IDs()
}

// SelectedCount returns the number of selected ids.
func (s *Session[T]) SelectedCount() int {
	s.selection.retain(s.ViewIDs())
	return s.selection.Count()
}
