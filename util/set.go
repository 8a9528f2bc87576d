package util

import (
	"slices"
	"sort"

	xset "github.com/xtgo/set"
)

// SortedUnique returns the distinct elements of s in ascending order.
// s itself is left untouched.
func SortedUnique(s []string) []string {
	sorted := slices.Clone(s)
	data := sort.StringSlice(sorted)
	sort.Sort(data)
	n := xset.Uniq(data)
	return sorted[:n]
}
