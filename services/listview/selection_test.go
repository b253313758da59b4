package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionToggleOne(t *testing.T) {
	sel := NewSelection()

	sel.ToggleOne(7)
	assert.True(t, sel.Has(7))
	assert.Equal(t, 1, sel.Count())

	sel.ToggleOne(7)
	assert.False(t, sel.Has(7))
	assert.Equal(t, 0, sel.Count())
}

func TestSelectionToggleAll(t *testing.T) {
	sel := NewSelection()
	view := []uint{1, 2, 3}

	sel.ToggleAll(view)
	assert.Equal(t, []uint{1, 2, 3}, sel.IDs())

	// All selected: a second toggle deselects everything.
	sel.ToggleAll(view)
	assert.Equal(t, 0, sel.Count())

	// Partial selection: toggle completes it instead of clearing.
	sel.ToggleOne(2)
	sel.ToggleAll(view)
	assert.Equal(t, []uint{1, 2, 3}, sel.IDs())
}

func TestSelectionIDsAscending(t *testing.T) {
	sel := NewSelection()
	sel.ToggleOne(9)
	sel.ToggleOne(1)
	sel.ToggleOne(5)

	assert.Equal(t, []uint{1, 5, 9}, sel.IDs())
}

func newRowSession(items []row) *Session[row] {
	s := NewSession(rowAdapter)
	s.Load(items)
	return s
}

func TestSessionSelectionRestrictedToView(t *testing.T) {
	s := newRowSession([]row{
		{ID: 1, Status: "approved"},
		{ID: 2, Status: "pending"},
		{ID: 3, Status: "approved"},
	})
	s.SetSpec(Spec{Filters: map[string]string{"status": "approved"}})

	s.ToggleOne(1)
	s.ToggleOne(2) // hidden under the active spec
	s.ToggleOne(3)

	assert.Equal(t, []uint{1, 3}, s.SelectedIDs())
	assert.Equal(t, 2, s.SelectedCount())
}

func TestSessionSpecChangeClearsSelection(t *testing.T) {
	s := newRowSession([]row{
		{ID: 1, Status: "approved"},
		{ID: 2, Status: "approved"},
	})
	s.SetSpec(Spec{Filters: map[string]string{"status": "approved"}})
	s.ToggleAll()
	assert.Equal(t, 2, s.SelectedCount())

	s.SetSpec(Spec{Filters: map[string]string{"status": "pending"}})
	assert.Equal(t, 0, s.SelectedCount())
}

func TestSessionIdenticalSpecKeepsSelection(t *testing.T) {
	spec := Spec{Filters: map[string]string{"status": "approved"}}
	s := newRowSession([]row{
		{ID: 1, Status: "approved"},
	})
	s.SetSpec(spec)
	s.ToggleOne(1)

	s.SetSpec(Spec{Filters: map[string]string{"status": "approved"}})
	assert.Equal(t, []uint{1}, s.SelectedIDs(), "re-applying an equal spec is a no-op")
}

func TestSessionLoadClearsSelection(t *testing.T) {
	s := newRowSession([]row{{ID: 1}, {ID: 2}})
	s.ToggleAll()
	assert.Equal(t, 2, s.SelectedCount())

	s.Load([]row{{ID: 1}, {ID: 2}, {ID: 3}})
	assert.Equal(t, 0, s.SelectedCount())
}

func TestSessionToggleAllUsesCurrentView(t *testing.T) {
	s := newRowSession([]row{
		{ID: 1, Status: "approved"},
		{ID: 2, Status: "pending"},
	})
	s.SetSpec(Spec{Filters: map[string]string{"status": "approved"}})

	s.ToggleAll()

	assert.Equal(t, []uint{1}, s.SelectedIDs())
}
