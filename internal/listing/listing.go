// Package listing is the in-memory filter, sort and paginate step shared by
// the product and order listings.
package listing

import "slices"

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

type Spec[T any] struct {
	Filter func(T) bool      // nil keeps everything
	Less   func(a, b T) bool // nil keeps input order
	Page   int
	Limit  int
}

type Page[T any] struct {
	Items []T
	Total int // matches before slicing
}

// Apply filters, sorts and slices items. items is never modified. A page past
// the end yields an empty, non-nil slice.
func Apply[T any](items []T, spec Spec[T]) Page[T] {
	matched := make([]T, 0, len(items))
	for _, it := range items {
		if spec.Filter == nil || spec.Filter(it) {
			matched = append(matched, it)
		}
	}
	if spec.Less != nil {
		slices.SortStableFunc(matched, func(a, b T) int {
			switch {
			case spec.Less(a, b):
				return -1
			case spec.Less(b, a):
				return 1
			}
			return 0
		})
	}

	page, limit := spec.Page, spec.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	// checked before multiplying so huge page numbers cannot overflow
	if page-1 > len(matched)/limit {
		return Page[T]{Items: []T{}, Total: len(matched)}
	}
	start := (page - 1) * limit
	if start >= len(matched) {
		return Page[T]{Items: []T{}, Total: len(matched)}
	}
	end := start + min(limit, len(matched)-start)
	return Page[T]{Items: matched[start:end], Total: len(matched)}
}
