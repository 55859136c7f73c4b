package core

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Matches reports whether a document satisfies a condition: every condition
// field must be deeply equal to the document's value at that (possibly
// dotted) path.
func Matches(doc Document, conds Conditions) bool {
	for path, want := range conds {
		got, ok := lookupPath(doc, path)
		if !ok || !reflect.DeepEqual(normalize(got), normalize(want)) {
			return false
		}
	}
	return true
}

// Key returns a canonical string encoding of a condition, suitable as a
// cache key. Encoding is JSON with sorted keys.
func (c Conditions) Key() string {
	data, err := json.Marshal(map[string]any(c))
	if err != nil {
		return ""
	}
	return string(data)
}

func lookupPath(doc Document, path string) (any, bool) {
	segments := strings.Split(path, ".")
	var current any = map[string]any(doc)
	for _, seg := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			if d, isDoc := current.(Document); isDoc {
				m = d
			} else {
				return nil, false
			}
		}
		current, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// normalize smooths over the Document vs map[string]any distinction so
// value comparison ignores the named type.
func normalize(v any) any {
	if d, ok := v.(Document); ok {
		return map[string]any(d)
	}
	return v
}
