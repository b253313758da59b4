package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID       uint
	Name     string
	Status   string
	Rating   *float64
	Created  time.Time
}

func ratingPtr(f float64) *float64 { return &f }

var rowAdapter = Adapter[row]{
	ID: func(r row) uint { return r.ID },
	SearchText: func(r row) []string {
		return []string{r.Name, r.Status}
	},
	FilterValue: func(r row, field string) string {
		if field == "status" {
			return r.Status
		}
		return ""
	},
	SortValue: func(r row, key string) SortValue {
		switch key {
		case "name":
			return StringValue(r.Name)
		case "rating":
			if r.Rating == nil {
				return NullValue()
			}
			return NumberValue(*r.Rating)
		case "created_at":
			return TimeValue(r.Created)
		}
		return NullValue()
	},
}

func TestApplyViewDoesNotMutateInput(t *testing.T) {
	items := []row{
		{ID: 3, Name: "cherry"},
		{ID: 1, Name: "apple"},
		{ID: 2, Name: "banana"},
	}

	_ = ApplyView(items, Spec{SortKey: "name", SortDir: Asc}, rowAdapter)

	assert.Equal(t, uint(3), items[0].ID, "input order must survive a sorted view")
	assert.Equal(t, uint(1), items[1].ID)
	assert.Equal(t, uint(2), items[2].ID)
}

func TestApplyViewIsIdempotent(t *testing.T) {
	items := []row{
		{ID: 1, Name: "apple", Status: "approved"},
		{ID: 2, Name: "banana", Status: "pending"},
		{ID: 3, Name: "cherry", Status: "approved"},
	}
	spec := Spec{
		Filters: map[string]string{"status": "approved"},
		SortKey: "name",
		SortDir: Desc,
	}

	first := ApplyView(items, spec, rowAdapter)
	second := ApplyView(items, spec, rowAdapter)

	assert.Equal(t, first, second)
}

func TestApplyViewSortsStringsCaseInsensitively(t *testing.T) {
	items := []row{
		{ID: 1, Name: "Zebra"},
		{ID: 2, Name: "apple"},
	}

	view := ApplyView(items, Spec{SortKey: "name", SortDir: Asc}, rowAdapter)

	assert.Equal(t, "apple", view[0].Name)
	assert.Equal(t, "Zebra", view[1].Name)
}

func TestApplyViewSortsNullsLastBothDirections(t *testing.T) {
	items := []row{
		{ID: 1, Rating: ratingPtr(5)},
		{ID: 2, Rating: nil},
		{ID: 3, Rating: ratingPtr(1)},
	}

	asc := ApplyView(items, Spec{SortKey: "rating", SortDir: Asc}, rowAdapter)
	assert.Equal(t, []uint{3, 1, 2}, ids(asc))

	desc := ApplyView(items, Spec{SortKey: "rating", SortDir: Desc}, rowAdapter)
	assert.Equal(t, []uint{1, 3, 2}, ids(desc))
}

func TestApplyViewSortIsStable(t *testing.T) {
	items := []row{
		{ID: 1, Name: "same", Rating: ratingPtr(3)},
		{ID: 2, Name: "same", Rating: ratingPtr(3)},
		{ID: 3, Name: "same", Rating: ratingPtr(3)},
	}

	view := ApplyView(items, Spec{SortKey: "rating", SortDir: Desc}, rowAdapter)

	assert.Equal(t, []uint{1, 2, 3}, ids(view), "equal keys keep their input order")
}

func TestApplyViewSearchMatchesAnyField(t *testing.T) {
	items := []row{
		{ID: 1, Name: "Ada Obi", Status: "approved"},
		{ID: 2, Name: "Ben Eze", Status: "pending"},
	}

	byName := ApplyView(items, Spec{Search: "ada"}, rowAdapter)
	assert.Equal(t, []uint{1}, ids(byName))

	byStatus := ApplyView(items, Spec{Search: "PENDING"}, rowAdapter)
	assert.Equal(t, []uint{2}, ids(byStatus))

	none := ApplyView(items, Spec{Search: "zzz"}, rowAdapter)
	assert.Empty(t, none)
}

func TestApplyViewAllSentinelIsNotLiteral(t *testing.T) {
	items := []row{
		{ID: 1, Status: "approved"},
		{ID: 2, Status: ""},
		{ID: 3, Status: "all"},
	}

	unconstrained := ApplyView(items, Spec{Filters: map[string]string{"status": All}}, rowAdapter)
	assert.Len(t, unconstrained, 3, "the sentinel matches everything")

	empty := ApplyView(items, Spec{Filters: map[string]string{"status": ""}}, rowAdapter)
	assert.Equal(t, []uint{2}, ids(empty), "an empty filter value matches literally")
}

func TestApplyViewCombinesSearchFilterSort(t *testing.T) {
	items := []row{
		{ID: 1, Name: "Intro to Prompting", Status: "published", Rating: ratingPtr(4.5)},
		{ID: 2, Name: "Prompting Deep Dive", Status: "draft", Rating: ratingPtr(4.9)},
		{ID: 3, Name: "Prompting Workshop", Status: "published", Rating: ratingPtr(4.8)},
		{ID: 4, Name: "Data Basics", Status: "published", Rating: ratingPtr(4.0)},
	}
	spec := Spec{
		Search:  "prompting",
		Filters: map[string]string{"status": "published"},
		SortKey: "rating",
		SortDir: Desc,
	}

	view := ApplyView(items, spec, rowAdapter)

	assert.Equal(t, []uint{3, 1}, ids(view))
}

func TestSpecEqual(t *testing.T) {
	a := Spec{Search: "x", Filters: map[string]string{"status": "approved"}, SortKey: "name", SortDir: Asc}
	b := Spec{Search: "x", Filters: map[string]string{"status": "approved"}, SortKey: "name", SortDir: Asc}
	c := Spec{Search: "x", Filters: map[string]string{"status": "pending"}, SortKey: "name", SortDir: Asc}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func ids(view []row) []uint {
	out := make([]uint, len(view))
	for i, r := range view {
		out[i] = r.ID
	}
	return out
}
