package core

import "context"

// UpdateOptions configures a partial update against the backing store.
type UpdateOptions struct {
	// Ack requests write-acknowledgement so the result can report whether
	// any document was actually changed.
	Ack bool
}

// Store defines the contract for the persistence primitives the instance
// engine needs. Adhering to this interface keeps the engine independent of
// the underlying storage mechanism (memory, single file, SQL, NoSQL).
type Store interface {
	// Insert persists a brand new document and returns the stored copy
	// (including any store-generated identifier).
	Insert(ctx context.Context, doc Document) (Document, error)

	// Update applies a change set to the single document matching the
	// conditions. It reports whether any document was actually changed.
	Update(ctx context.Context, conds Conditions, changes Changes, opts UpdateOptions) (bool, error)

	// FindOne retrieves the document matching the conditions.
	// Returns ErrNotFound if no document matches.
	FindOne(ctx context.Context, conds Conditions) (Document, error)

	// Remove deletes documents matching the conditions and returns the
	// number of documents removed.
	Remove(ctx context.Context, conds Conditions) (int, error)
}

// Watchable defines an interface for stores that can surface external
// changes to their contents.
type Watchable interface {
	// Watch observes changes matching an ID pattern.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Cache defines an optional read-through/write-through layer keyed by a
// uniqueness-selecting condition. May be absent entirely.
type Cache interface {
	// Store records a document under its selecting condition.
	Store(ctx context.Context, conds Conditions, doc Document)

	// Fetch returns the cached document for the condition, or nil on miss.
	Fetch(ctx context.Context, conds Conditions) Document

	// Drop evicts the entry at the condition. Invoked only after a
	// confirmed remote removal.
	Drop(ctx context.Context, conds Conditions)
}

// ConditionBuilder derives uniqueness-selecting conditions from a document
// and reversibly maps field names between the in-memory and storage
// representations.
type ConditionBuilder interface {
	// SelectOne derives a condition selecting exactly the given document.
	SelectOne(doc Document) Conditions

	// SelectOneDownstream derives a condition suitable for merging with
	// caller-supplied narrowing conditions.
	SelectOneDownstream(doc Document) Conditions

	// Apply maps field names from the storage representation to the
	// in-memory representation.
	Apply(doc Document) Document

	// Reverse maps field names from the in-memory representation back to
	// the storage representation. Reverse(Apply(d)) preserves d.
	Reverse(doc Document) Document
}

// Validator checks a document against model rules. A nil return means the
// document passed; a non-nil error carries the failure detail.
type Validator interface {
	Validate(doc Document) error
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc func(doc Document) error

// Validate implements Validator.
func (f ValidatorFunc) Validate(doc Document) error { return f(doc) }

// Hooks receives lifecycle notifications at defined pipeline points and may
// veto or transform. Implementations are injected as an explicit ordered
// list at model construction.
type Hooks interface {
	// SavingDocument runs before persistence with the pending change set.
	// The document is the live working snapshot and may be mutated.
	// A non-nil error aborts the save.
	SavingDocument(ctx context.Context, doc Document, changes Changes) error

	// DocumentReceived runs on every document fetched from the store.
	// apply performs the storage-to-memory field-name transform; the hook
	// decides when (and whether) to invoke it on the raw document.
	DocumentReceived(ctx context.Context, conds Conditions, doc Document, apply func(Document) Document) (Document, error)
}
