package diff

import (
	"reflect"
	"strings"

	"github.com/aretw0/marl/pkg/core"
)

// Apply interprets a change set against a document, in place. It returns
// whether any field actually changed value — setting a field to the value
// it already holds does not count. Store adapters use this to implement
// write-acknowledged partial updates.
func Apply(doc core.Document, changes core.Changes) bool {
	changed := false
	for path, value := range changes[core.OpSet] {
		if setPath(doc, path, value) {
			changed = true
		}
	}
	for path := range changes[core.OpUnset] {
		if unsetPath(doc, path) {
			changed = true
		}
	}
	return changed
}

func setPath(doc core.Document, path string, value any) bool {
	parent, leaf := descend(doc, path, true)
	if parent == nil {
		return false
	}
	if old, ok := parent[leaf]; ok && reflect.DeepEqual(old, value) {
		return false
	}
	parent[leaf] = core.DeepCopyValue(value)
	return true
}

func unsetPath(doc core.Document, path string) bool {
	parent, leaf := descend(doc, path, false)
	if parent == nil {
		return false
	}
	if _, ok := parent[leaf]; !ok {
		return false
	}
	delete(parent, leaf)
	return true
}

// descend walks a dotted path to the parent map of its leaf segment,
// optionally creating intermediate maps.
func descend(doc core.Document, path string, create bool) (map[string]any, string) {
	segments := strings.Split(path, ".")
	current := map[string]any(doc)
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg]
		if !ok {
			if !create {
				return nil, ""
			}
			child := make(map[string]any)
			current[seg] = child
			current = child
			continue
		}
		child, ok := toMap(next)
		if !ok {
			if !create {
				return nil, ""
			}
			child = make(map[string]any)
			current[seg] = child
		}
		current = child
	}
	return current, segments[len(segments)-1]
}
