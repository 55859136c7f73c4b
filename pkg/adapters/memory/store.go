// Package memory provides in-memory implementations of the store and cache
// contracts. Useful as a default backend for tests and ephemeral models.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/diff"
)

// Config holds the configuration for the in-memory store.
type Config struct {
	// IDField is the storage name of the generated identifier.
	// Defaults to "_id".
	IDField string

	Logger *slog.Logger
}

// Store implements core.Store backed by a slice guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	docs    []core.Document
	idField string
	logger  *slog.Logger
}

// NewStore creates an empty in-memory store.
func NewStore(cfg Config) *Store {
	if cfg.IDField == "" {
		cfg.IDField = "_id"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Store{idField: cfg.IDField, logger: cfg.Logger}
}

// Insert persists a new document, generating an identifier when absent.
func (s *Store) Insert(ctx context.Context, doc core.Document) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored := doc.Clone()
	if _, ok := stored[s.idField]; !ok {
		stored[s.idField] = uuid.NewString()
	}

	s.mu.Lock()
	s.docs = append(s.docs, stored)
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "inserted document", "id", stored[s.idField])
	return stored.Clone(), nil
}

// Update applies the change set to the first document matching the
// conditions. Reports whether any field actually changed value.
func (s *Store) Update(ctx context.Context, conds core.Conditions, changes core.Changes, opts core.UpdateOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.docs {
		if core.Matches(doc, conds) {
			return diff.Apply(doc, changes), nil
		}
	}
	return false, nil
}

// FindOne retrieves the first document matching the conditions.
func (s *Store) FindOne(ctx context.Context, conds core.Conditions) (core.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if core.Matches(doc, conds) {
			return doc.Clone(), nil
		}
	}
	return nil, core.ErrNotFound
}

// Remove deletes all documents matching the conditions.
func (s *Store) Remove(ctx context.Context, conds core.Conditions) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.docs[:0]
	removed := 0
	for _, doc := range s.docs {
		if core.Matches(doc, conds) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	s.docs = kept
	return removed, nil
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

var _ core.Store = (*Store)(nil)
