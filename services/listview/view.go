// Package listview implements the pure filter/sort/select logic behind every
// admin table and public catalog listing. It never touches the database: the
// caller loads a full collection, the engine derives an ordered subset from a
// Spec and tracks a selection over it.
package listview

import (
	"sort"
	"strings"
	"time"
)

// SortDirection is the direction of a sort.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// All is the sentinel filter value meaning "no constraint". It is distinct
// from the empty string, which is matched literally.
const All = "all"

// Spec describes the current search/filter/sort intent. It is a plain value
// object; re-applying the same Spec to the same collection yields the same
// result.
type Spec struct {
	Search  string
	Filters map[string]string // field name -> required value, All = unconstrained
	SortKey string
	SortDir SortDirection
}

// Equal reports whether two specs describe the same view.
func (s Spec) Equal(other Spec) bool {
	if s.Search != other.Search || s.SortKey != other.SortKey || s.SortDir != other.SortDir {
		return false
	}
	if len(s.Filters) != len(other.Filters) {
		return false
	}
	for k, v := range s.Filters {
		if other.Filters[k] != v {
			return false
		}
	}
	return true
}

// SortValue is one sortable cell. Exactly one of the kinds applies; IsNull
// values sort after every defined value regardless of direction.
type SortValue struct {
	IsNull bool
	kind   valueKind
	str    string
	num    float64
	ts     time.Time
}

type valueKind int

const (
	kindString valueKind = iota
	kindNumber
	kindTime
)

// StringValue builds a string sort cell (compared case-insensitively).
func StringValue(s string) SortValue {
	return SortValue{kind: kindString, str: s}
}

// NumberValue builds a numeric sort cell.
func NumberValue(f float64) SortValue {
	return SortValue{kind: kindNumber, num: f}
}

// TimeValue builds a timestamp sort cell.
func TimeValue(t time.Time) SortValue {
	return SortValue{kind: kindTime, ts: t}
}

// NullValue builds a missing cell. Nulls sort last in both directions.
func NullValue() SortValue {
	return SortValue{IsNull: true}
}

// compare returns <0, 0, >0 for defined values of the same kind.
func (v SortValue) compare(other SortValue) int {
	switch v.kind {
	case kindNumber:
		switch {
		case v.num < other.num:
			return -1
		case v.num > other.num:
			return 1
		}
		return 0
	case kindTime:
		switch {
		case v.ts.Before(other.ts):
			return -1
		case v.ts.After(other.ts):
			return 1
		}
		return 0
	default:
		return strings.Compare(strings.ToLower(v.str), strings.ToLower(other.str))
	}
}

// Adapter teaches the engine how to read one entity type.
type Adapter[T any] struct {
	// ID returns the entity identifier used by selections.
	ID func(T) uint
	// SearchText returns the text fields matched by the search term.
	SearchText func(T) []string
	// FilterValue returns the entity's value for a filterable field.
	FilterValue func(T, string) string
	// SortValue returns the sortable cell for a sort key.
	SortValue func(T, string) SortValue
}

// ApplyView derives the ordered subset of items described by spec. The input
// slice is never mutated and the result is always a fresh slice, so applying
// the same spec twice yields equal output.
func ApplyView[T any](items []T, spec Spec, adapter Adapter[T]) []T {
	view := make([]T, 0, len(items))
	term := strings.ToLower(strings.TrimSpace(spec.Search))

	for _, item := range items {
		if term != "" && !matchesSearch(item, term, adapter) {
			continue
		}
		if !matchesFilters(item, spec.Filters, adapter) {
			continue
		}
		view = append(view, item)
	}

	if spec.SortKey != "" && adapter.SortValue != nil {
		sortView(view, spec, adapter)
	}

	return view
}

func matchesSearch[T any](item T, term string, adapter Adapter[T]) bool {
	if adapter.SearchText == nil {
		return true
	}
	for _, field := range adapter.SearchText(item) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](item T, filters map[string]string, adapter Adapter[T]) bool {
	if len(filters) == 0 || adapter.FilterValue == nil {
		return true
	}
	for field, want := range filters {
		if want == All {
			continue
		}
		if adapter.FilterValue(item, field) != want {
			return false
		}
	}
	return true
}

func sortView[T any](view []T, spec Spec, adapter Adapter[T]) {
	desc := spec.SortDir == Desc
	sort.SliceStable(view, func(i, j int) bool {
		a := adapter.SortValue(view[i], spec.SortKey)
		b := adapter.SortValue(view[j], spec.SortKey)

		// Nulls last regardless of direction.
		if a.IsNull || b.IsNull {
			return !a.IsNull && b.IsNull
		}

		c := a.compare(b)
		if desc {
			return c > 0
		}
		return c < 0
	})
}
