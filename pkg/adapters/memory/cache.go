package memory

import (
	"context"
	"sync"

	"github.com/aretw0/marl/pkg/core"
)

// Cache implements core.Cache in process memory, keyed by the canonical
// encoding of the selecting condition.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]core.Document
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]core.Document)}
}

// Store records a document under its selecting condition.
func (c *Cache) Store(ctx context.Context, conds core.Conditions, doc core.Document) {
	key := conds.Key()
	if key == "" {
		return
	}
	c.mu.Lock()
	c.entries[key] = doc.Clone()
	c.mu.Unlock()
}

// Fetch returns the cached document for the condition, or nil on miss.
func (c *Cache) Fetch(ctx context.Context, conds core.Conditions) core.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.entries[conds.Key()]
	if !ok {
		return nil
	}
	return doc.Clone()
}

// Drop evicts the entry at the condition.
func (c *Cache) Drop(ctx context.Context, conds core.Conditions) {
	c.mu.Lock()
	delete(c.entries, conds.Key())
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

var _ core.Cache = (*Cache)(nil)
