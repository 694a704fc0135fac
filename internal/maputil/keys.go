// Package maputil provides small helpers for deterministic map traversal.
package maputil

import (
	"cmp"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// StatusCodes returns response keys ordered numerically with "default" last.
// Non-numeric keys other than "default" sort lexicographically before it.
func StatusCodes[V any](m map[string]V) []string {
	keys := SortedKeys(m)
	slices.SortStableFunc(keys, func(a, b string) int {
		return cmp.Compare(statusRank(a), statusRank(b))
	})
	return keys
}

func statusRank(code string) int {
	if code == "default" {
		return 2
	}
	if len(code) == 3 && (code[1] == 'X' || code[1] == 'x') {
		return 1
	}
	return 0
}
