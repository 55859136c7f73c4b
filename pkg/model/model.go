// Package model owns the document instance lifecycle: wrapping documents,
// computing change sets, and reconciling local snapshots with the backing
// store after saves, refreshes and removals.
package model

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aretw0/marl/pkg/core"
)

// Model is the factory and shared context for instances of one document
// kind. It carries the store handle, the condition builder, validation
// rules, the ordered lifecycle hooks and an optional cache.
type Model struct {
	store     core.Store
	cache     core.Cache
	builder   core.ConditionBuilder
	validator core.Validator
	hooks     []core.Hooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring a Model.
type Option func(*Model)

// WithCache attaches an optional read-through cache.
func WithCache(cache core.Cache) Option {
	return func(m *Model) { m.cache = cache }
}

// WithConditionBuilder replaces the default key-based condition builder.
func WithConditionBuilder(b core.ConditionBuilder) Option {
	return func(m *Model) { m.builder = b }
}

// WithValidator sets the model validation rules applied before saves.
func WithValidator(v core.Validator) Option {
	return func(m *Model) { m.validator = v }
}

// WithHooks appends lifecycle hooks. Hooks run in registration order.
func WithHooks(hooks ...core.Hooks) Option {
	return func(m *Model) { m.hooks = append(m.hooks, hooks...) }
}

// WithLogger sets the logger for the model and its instances.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// New creates a Model backed by the given store.
func New(store core.Store, opts ...Option) *Model {
	m := &Model{
		store:   store,
		builder: NewKeyBuilder(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Wrap creates an instance around an initial document. The document is
// deep-copied into both snapshots; the caller's map is never aliased.
func (m *Model) Wrap(doc core.Document, isNew, isPartial bool) *Instance {
	return &Instance{
		model:     m,
		original:  doc.Clone(),
		modified:  doc.Clone(),
		isNew:     isNew,
		isPartial: isPartial,
	}
}

// Create wraps a never-persisted document. The first Save will insert it.
func (m *Model) Create(doc core.Document) *Instance {
	return m.Wrap(doc, true, false)
}

// FindOne fetches the document matching the conditions and wraps it as a
// confirmed instance. The cache, when configured, is consulted first and
// populated on miss (read-through).
func (m *Model) FindOne(ctx context.Context, conds core.Conditions) (*Instance, error) {
	storeConds := core.Conditions(m.builder.Reverse(core.Document(conds)))

	if m.cache != nil {
		if doc := m.cache.Fetch(ctx, storeConds); doc != nil {
			m.logger.DebugContext(ctx, "cache hit", "conditions", storeConds)
			return m.Wrap(doc, false, false), nil
		}
	}

	raw, err := m.store.FindOne(ctx, storeConds)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, &core.StoreError{Op: "find", Err: err}
	}

	doc, err := m.receive(ctx, storeConds, raw)
	if err != nil {
		return nil, err
	}
	return m.Wrap(doc, false, false), nil
}

// receive runs the post-fetch pipeline on a raw store document: the ordered
// DocumentReceived hooks, the storage-to-memory field-name transform, and
// the cache store call site.
func (m *Model) receive(ctx context.Context, conds core.Conditions, raw core.Document) (core.Document, error) {
	doc := raw.Clone()

	applied := false
	apply := func(d core.Document) core.Document {
		applied = true
		return m.builder.Apply(d)
	}

	for _, h := range m.hooks {
		next, err := h.DocumentReceived(ctx, conds, doc, apply)
		if err != nil {
			return nil, &core.HookError{Hook: "received", Err: err}
		}
		doc = next
	}

	// Hooks may take over transform application; fall back when none did.
	if !applied {
		doc = m.builder.Apply(doc)
	}

	if m.cache != nil {
		m.cache.Store(ctx, m.cacheKey(doc), doc.Clone())
	}
	return doc, nil
}

// cacheKey derives the canonical (storage-name) selecting condition for a
// reconciled in-memory document. Remove uses the same derivation so store
// and drop always address the same entry.
func (m *Model) cacheKey(doc core.Document) core.Conditions {
	conds := m.builder.SelectOne(doc)
	return core.Conditions(m.builder.Reverse(core.Document(conds)))
}
