package core

// Utility scans over sequences and mappings. Predicates receive the value
// and its index or key; results preserve the input's shape.

// First returns the first element satisfying pred, scanning in index order.
// The second return value is false when no element matches.
func First[T any](items []T, pred func(value T, index int) bool) (T, bool) {
	for i, v := range items {
		if pred(v, i) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// FirstInMap returns a value satisfying pred. Iteration order is
// implementation-defined but each entry is visited at most once.
// The second return value is false when no entry matches.
func FirstInMap[K comparable, V any](items map[K]V, pred func(value V, key K) bool) (V, bool) {
	for k, v := range items {
		if pred(v, k) {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Select returns all elements satisfying pred, preserving index order.
func Select[T any](items []T, pred func(value T, index int) bool) []T {
	var out []T
	for i, v := range items {
		if pred(v, i) {
			out = append(out, v)
		}
	}
	return out
}

// SelectInMap returns all entries satisfying pred as a new map.
func SelectInMap[K comparable, V any](items map[K]V, pred func(value V, key K) bool) map[K]V {
	out := make(map[K]V)
	for k, v := range items {
		if pred(v, k) {
			out[k] = v
		}
	}
	return out
}
