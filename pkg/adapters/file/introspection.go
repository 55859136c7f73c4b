package file

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Path          string     `json:"path"`
	IDField       string     `json:"id_field"`
	Documents     int        `json:"documents"`
	ReadOnly      bool       `json:"read_only"`
	WatcherActive bool       `json:"watcher_active"`
	LastReconcile *time.Time `json:"last_reconcile,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Path:          s.Path,
		IDField:       s.config.IDField,
		Documents:     len(s.data.Documents),
		ReadOnly:      s.config.ReadOnly,
		WatcherActive: s.watcherActive,
		LastReconcile: s.lastReconcile,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

// recordReconcile stamps the last reconcile time. Caller must hold the
// write lock.
func (s *Store) recordReconcile() {
	now := time.Now()
	s.lastReconcile = &now
}
