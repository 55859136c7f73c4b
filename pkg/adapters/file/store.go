// Package file implements the store contract on top of a single JSON or
// YAML file, guarded by a cross-process file lock. Writes are atomic
// (temp file + rename) and external modifications can be observed via
// Watch.
package file

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/diff"
)

// ErrReadOnly is returned by write operations when the store was opened in
// read-only mode.
var ErrReadOnly = errors.New("store is in read-only mode")

// Config holds the configuration for the file-backed store.
type Config struct {
	// Path is the store file. The extension picks the serialization
	// format (".yaml"/".yml" for YAML, anything else JSON).
	Path string

	// IDField is the storage name of the generated identifier.
	// Defaults to "_id".
	IDField string

	// ReadOnly disables all write operations and lock acquisition.
	ReadOnly bool

	Logger *slog.Logger
}

// Store implements core.Store backed by a single serialized file.
type Store struct {
	Path string

	mu         sync.RWMutex
	data       *storeData
	config     Config
	serializer Serializer
	flk        *flock.Flock
	logger     *slog.Logger

	watcherActive bool
	lastReconcile *time.Time
}

// NewStore creates a file-backed store. Call Initialize before use.
func NewStore(config Config) *Store {
	if config.IDField == "" {
		config.IDField = "_id"
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Store{
		Path:       config.Path,
		config:     config,
		serializer: SerializerFor(filepath.Ext(config.Path)),
		flk:        flock.New(config.Path + ".lock"),
		logger:     config.Logger,
		data: &storeData{
			Version:   1,
			Documents: []core.Document{},
		},
	}
}

// Initialize ensures the parent directory exists and loads any existing
// contents. A missing or corrupt file yields an empty store (self-heal).
func (s *Store) Initialize(ctx context.Context) error {
	if !s.config.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// load reads the store file into memory. Caller must hold the write lock.
func (s *Store) load() error {
	raw, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil // Start fresh
	}
	if err != nil {
		return fmt.Errorf("failed to read store file: %w", err)
	}

	data, err := s.serializer.Decode(raw)
	if err != nil {
		// Treat corruption as empty store to self-heal; the next flush
		// rewrites a valid file.
		s.logger.Warn("store file corrupt, starting fresh", "path", s.Path, "error", err)
		s.data = &storeData{Version: 1, Documents: []core.Document{}}
		return nil
	}

	s.data = data
	return nil
}

// flush persists the in-memory contents. Caller must hold the write lock.
func (s *Store) flush() error {
	s.data.UpdatedAt = time.Now()
	raw, err := s.serializer.Encode(s.data)
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}
	return writeFileAtomic(s.Path, raw, 0644)
}

// withFileLock runs fn holding both the in-process mutex and the
// cross-process file lock, reloading first so external writes since the
// last operation are visible.
func (s *Store) withFileLock(ctx context.Context, fn func() error) error {
	if s.config.ReadOnly {
		return ErrReadOnly
	}

	locked, err := s.flk.TryLockContext(ctx, 25*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("store lock unavailable: %s", s.flk.Path())
	}
	defer s.flk.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	return fn()
}

// Insert persists a new document, generating an identifier when absent.
func (s *Store) Insert(ctx context.Context, doc core.Document) (core.Document, error) {
	stored := doc.Clone()

	err := s.withFileLock(ctx, func() error {
		if _, ok := stored[s.config.IDField]; !ok {
			stored[s.config.IDField] = uuid.NewString()
		}
		s.data.Documents = append(s.data.Documents, stored)
		return s.flush()
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "inserted document", "id", stored[s.config.IDField])
	return stored.Clone(), nil
}

// Update applies the change set to the first document matching the
// conditions. Reports whether any field actually changed value.
func (s *Store) Update(ctx context.Context, conds core.Conditions, changes core.Changes, opts core.UpdateOptions) (bool, error) {
	changed := false
	err := s.withFileLock(ctx, func() error {
		for _, doc := range s.data.Documents {
			if core.Matches(doc, conds) {
				changed = diff.Apply(doc, changes)
				break
			}
		}
		if !changed {
			return nil
		}
		return s.flush()
	})
	return changed, err
}

// FindOne retrieves the first document matching the conditions.
func (s *Store) FindOne(ctx context.Context, conds core.Conditions) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.data.Documents {
		if core.Matches(doc, conds) {
			return doc.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

// Remove deletes all documents matching the conditions.
func (s *Store) Remove(ctx context.Context, conds core.Conditions) (int, error) {
	removed := 0
	err := s.withFileLock(ctx, func() error {
		kept := s.data.Documents[:0]
		for _, doc := range s.data.Documents {
			if core.Matches(doc, conds) {
				removed++
				continue
			}
			kept = append(kept, doc)
		}
		s.data.Documents = kept
		if removed == 0 {
			return nil
		}
		return s.flush()
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// List returns copies of all documents whose identifier matches the glob
// pattern. An empty pattern matches everything.
func (s *Store) List(ctx context.Context, pattern string) ([]core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Document
	for _, doc := range s.data.Documents {
		if pattern != "" && !matchesPattern(pattern, s.documentID(doc)) {
			continue
		}
		out = append(out, doc.Clone())
	}
	return out, nil
}

// Reload re-reads the store file, picking up external modifications.
func (s *Store) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// documentID renders the identifying field as a string for pattern matching
// and events.
func (s *Store) documentID(doc core.Document) string {
	v, ok := doc[s.config.IDField]
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

func matchesPattern(pattern, id string) bool {
	ok, err := doublestar.Match(pattern, id)
	if err != nil {
		return false
	}
	return ok
}

var _ core.Store = (*Store)(nil)
