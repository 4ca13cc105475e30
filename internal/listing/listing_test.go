package listing

import (
	"math"
	"slices"
	"testing"
)

func TestApply(t *testing.T) {
	items := []int{5, 3, 8, 1, 9, 2, 7}
	even := func(n int) bool { return n%2 == 0 }
	asc := func(a, b int) bool { return a < b }

	tests := []struct {
		name  string
		spec  Spec[int]
		want  []int
		total int
	}{
		{"defaults", Spec[int]{}, []int{5, 3, 8, 1, 9, 2, 7}, 7},
		{"filter", Spec[int]{Filter: even}, []int{8, 2}, 2},
		{"sort and page", Spec[int]{Less: asc, Page: 2, Limit: 3}, []int{5, 7, 8}, 7},
		{"last partial page", Spec[int]{Page: 3, Limit: 3}, []int{7}, 7},
		{"past the end", Spec[int]{Page: 9, Limit: 3}, []int{}, 7},
		{"non-positive page", Spec[int]{Page: -2, Limit: 2}, []int{5, 3}, 7},
		{"offset overflows negative", Spec[int]{Page: math.MaxInt/2 + 2, Limit: 2}, []int{}, 7},
		{"offset wraps to zero", Spec[int]{Page: math.MaxInt/2 + 2, Limit: 4}, []int{}, 7},
		{"huge limit", Spec[int]{Page: 1, Limit: math.MaxInt}, []int{5, 3, 8, 1, 9, 2, 7}, 7},
		{"huge limit second page", Spec[int]{Page: 2, Limit: math.MaxInt}, []int{}, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Apply(items, tc.spec)
			if got.Items == nil || !slices.Equal(got.Items, tc.want) || got.Total != tc.total {
				t.Fatalf("got %v (total %d), want %v (total %d)", got.Items, got.Total, tc.want, tc.total)
			}
		})
	}
	if !slices.Equal(items, []int{5, 3, 8, 1, 9, 2, 7}) {
		t.Fatalf("input modified: %v", items)
	}
}
