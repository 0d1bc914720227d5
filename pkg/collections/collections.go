package collections

import "golang.org/x/exp/constraints"

// Number is any integer or float type.
type Number interface {
	constraints.Integer | constraints.Float
}

// Apply applies the applicator function to each item in the input slice.
func Apply[T, V any](items []T, applicator func(T) V) []V {
	result := make([]V, len(items))
	for i, item := range items {
		result[i] = applicator(item)
	}
	return result
}

// Filter returns the items for which keep returns true, in order.
func Filter[T any](items []T, keep func(T) bool) []T {
	var result []T
	for _, item := range items {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result
}

// Mean returns the arithmetic mean of items, or 0 for an empty slice.
func Mean[N Number](items []N) float64 {
	if len(items) == 0 {
		return 0
	}

	var sum float64
	for _, item := range items {
		sum += float64(item)
	}
	return sum / float64(len(items))
}
