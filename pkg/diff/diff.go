// Package diff computes minimal field-level change sets between two
// document snapshots, expressed in the store's partial-update vocabulary.
package diff

import (
	"reflect"

	"github.com/aretw0/marl/pkg/core"
)

// Diff compares two snapshots of the same logical shape and returns the
// minimal set of operations transforming before into after.
//
// Comparison is deep: nested maps are walked and changed leaves are
// addressed with dotted paths. Slices and values whose type changed are
// replaced whole. The result is empty when the snapshots are equal.
//
// Diff is a pure function: it performs no I/O and never aliases either
// input in its output (changed values are deep copied).
func Diff(before, after core.Document) core.Changes {
	set := make(map[string]any)
	unset := make(map[string]any)

	diffMap("", asMap(before), asMap(after), set, unset)

	changes := make(core.Changes)
	if len(set) > 0 {
		changes[core.OpSet] = set
	}
	if len(unset) > 0 {
		changes[core.OpUnset] = unset
	}
	return changes
}

func diffMap(prefix string, before, after map[string]any, set, unset map[string]any) {
	for key, afterVal := range after {
		path := joinPath(prefix, key)
		beforeVal, ok := before[key]
		if !ok {
			set[path] = core.DeepCopyValue(afterVal)
			continue
		}

		beforeMap, beforeIsMap := toMap(beforeVal)
		afterMap, afterIsMap := toMap(afterVal)
		if beforeIsMap && afterIsMap {
			diffMap(path, beforeMap, afterMap, set, unset)
			continue
		}

		if !reflect.DeepEqual(beforeVal, afterVal) {
			set[path] = core.DeepCopyValue(afterVal)
		}
	}

	for key := range before {
		if _, ok := after[key]; !ok {
			unset[joinPath(prefix, key)] = ""
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func asMap(d core.Document) map[string]any {
	if d == nil {
		return map[string]any{}
	}
	return d
}

func toMap(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case core.Document:
		return val, true
	default:
		return nil, false
	}
}
