package platform

import (
	"log/slog"

	"github.com/aretw0/marl/pkg/core"
)

// options holds the internal configuration for the Marl factory.
type options struct {
	store     core.Store
	cache     core.Cache
	builder   core.ConditionBuilder
	validator core.Validator
	hooks     []core.Hooks
	logger    *slog.Logger
	adapter   string
	config    map[string]interface{}
}

// Option defines a functional option for configuring Marl.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter: "file",
		config:  make(map[string]interface{}),
	}
}

// WithLogger sets the logger for the model and its store adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStore allows injecting a custom store adapter (e.g. mock, SQL).
// If provided, the default adapter selection is skipped.
func WithStore(store core.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithAdapter allows specifying the store adapter by name ("file" or
// "memory"). Defaults to "file".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithIDField sets the storage name of the generated identifier.
// Defaults to "_id".
func WithIDField(name string) Option {
	return func(o *options) {
		o.config["id_field"] = name
	}
}

// WithReadOnly enables read-only mode on the file adapter. Write
// operations return an error and no lock file is created.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithCache attaches an optional read-through cache to the model.
func WithCache(cache core.Cache) Option {
	return func(o *options) {
		o.cache = cache
	}
}

// WithConditionBuilder replaces the default key-based condition builder.
func WithConditionBuilder(b core.ConditionBuilder) Option {
	return func(o *options) {
		o.builder = b
	}
}

// WithValidator sets the model validation rules applied before saves.
func WithValidator(v core.Validator) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithHooks appends lifecycle hooks, invoked in registration order.
func WithHooks(hooks ...core.Hooks) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks...)
	}
}
