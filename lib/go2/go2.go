// Package go2 holds small generic helpers missing from the standard library.
package go2

import (
	"golang.org/x/exp/constraints"
)

// Pointer returns a pointer to a copy of v.
func Pointer[T any](v T) *T {
	return &v
}

// Mean of the values, 0 for an empty slice.
func Mean[T constraints.Integer | constraints.Float](vals []T) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += float64(v)
	}
	return sum / float64(len(vals))
}
