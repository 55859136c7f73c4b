package marl

import (
	"log/slog"

	"github.com/aretw0/marl/internal/platform"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/diff"
	"github.com/aretw0/marl/pkg/model"
)

// --- Types ---

// Document is a public alias for the raw document type.
type Document = core.Document

// Conditions is a public alias for the uniqueness-selecting predicate type.
type Conditions = core.Conditions

// Changes is a public alias for the field-level change set type.
type Changes = core.Changes

// Model is a public alias for the instance factory.
type Model = model.Model

// Instance is a public alias for the document instance.
type Instance = model.Instance

// SaveOptions is a public alias for explicit save inputs.
type SaveOptions = model.SaveOptions

// --- Configuration ---

// Option defines a functional option for configuring Marl.
type Option = platform.Option

// WithLogger sets the logger for the model and its store adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithStore allows injecting a custom store adapter.
func WithStore(store core.Store) Option {
	return platform.WithStore(store)
}

// WithAdapter allows specifying the store adapter by name ("file", "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithIDField sets the storage name of the generated identifier.
func WithIDField(name string) Option {
	return platform.WithIDField(name)
}

// WithReadOnly enables read-only mode on the file adapter.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithCache attaches an optional read-through cache.
func WithCache(cache core.Cache) Option {
	return platform.WithCache(cache)
}

// WithConditionBuilder replaces the default key-based condition builder.
func WithConditionBuilder(b core.ConditionBuilder) Option {
	return platform.WithConditionBuilder(b)
}

// WithValidator sets the model validation rules applied before saves.
func WithValidator(v core.Validator) Option {
	return platform.WithValidator(v)
}

// WithHooks appends lifecycle hooks, invoked in registration order.
func WithHooks(hooks ...core.Hooks) Option {
	return platform.WithHooks(hooks...)
}

// --- Factory ---

// New initializes a store for the URI and wires a Model around it.
func New(uri string, opts ...Option) (*model.Model, error) {
	return platform.New(uri, opts...)
}

// Init initializes a store explicitly, without a model.
func Init(uri string, opts ...Option) (core.Store, error) {
	return platform.Init(uri, opts...)
}

// --- Operations ---

// Diff computes the minimal change set between two document snapshots.
func Diff(before, after Document) Changes {
	return diff.Diff(before, after)
}

// Async adapts a blocking operation to completion-channel style. The
// returned channel delivers the operation's result exactly once and is
// then closed.
//
//	done := marl.Async(func() error { return inst.Save(ctx) })
//	...
//	if err := <-done; err != nil { ... }
func Async(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
		close(done)
	}()
	return done
}

// --- Scans ---

// First returns the first element satisfying pred, scanning in index order.
func First[T any](items []T, pred func(value T, index int) bool) (T, bool) {
	return core.First(items, pred)
}

// FirstInMap returns a value satisfying pred.
func FirstInMap[K comparable, V any](items map[K]V, pred func(value V, key K) bool) (V, bool) {
	return core.FirstInMap(items, pred)
}

// Select returns all elements satisfying pred, preserving index order.
func Select[T any](items []T, pred func(value T, index int) bool) []T {
	return core.Select(items, pred)
}

// SelectInMap returns all entries satisfying pred as a new map.
func SelectInMap[K comparable, V any](items map[K]V, pred func(value V, key K) bool) map[K]V {
	return core.SelectInMap(items, pred)
}
