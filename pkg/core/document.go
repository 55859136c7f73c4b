// Document is the central entity of the domain.
package core

import "reflect"

// Document represents a single stored record as flexible key-value pairs.
// Values may be scalars, nested maps (map[string]any) or slices.
// It is agnostic to the backing store (memory, file, SQL, NoSQL).
type Document map[string]any

// Conditions is a query predicate sufficient to uniquely identify one
// stored document. Keys use storage field names once reverse-mapped.
type Conditions map[string]any

// Change operators, in the store's partial-update vocabulary.
const (
	OpSet   = "$set"
	OpUnset = "$unset"
)

// Changes describes field-level operations transforming one snapshot into
// another. The outer key is the operator ($set, $unset), the inner key a
// dotted field path.
type Changes map[string]map[string]any

// IsEmpty reports whether the change set contains no operations.
func (c Changes) IsEmpty() bool {
	for _, fields := range c {
		if len(fields) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the document.
// Nested maps and slices are copied recursively; scalar values are shared
// (they are immutable by value semantics).
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return deepCopyMap(d)
}

// Equal reports whether two documents are deeply equal by value.
func (d Document) Equal(other Document) bool {
	if len(d) == 0 && len(other) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(d), map[string]any(other))
}

// Clone returns a deep copy of the conditions.
func (c Conditions) Clone() Conditions {
	if c == nil {
		return nil
	}
	return Conditions(deepCopyMap(map[string]any(c)))
}

func deepCopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = deepCopyValue(v)
	}
	return dst
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case Document:
		// Normalize to a plain map so deep comparison never trips on the
		// named type.
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// DeepCopyValue copies an arbitrary document value (map, slice or scalar).
// Exposed for adapters and differs that hand values across the
// instance/store boundary.
func DeepCopyValue(v any) any {
	return deepCopyValue(v)
}
