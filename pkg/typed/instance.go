package typed

import (
	"context"

	"github.com/aretw0/marl/pkg/model"
)

// Instance is a typed view over a raw document instance. Reads decode the
// working snapshot into T; writes re-encode T into it.
type Instance[T any] struct {
	raw *model.Instance
}

// Raw returns the underlying untyped instance.
func (i *Instance[T]) Raw() *model.Instance { return i.raw }

// Data decodes the current working snapshot.
func (i *Instance[T]) Data() (T, error) {
	return FromDocument[T](i.raw.Document())
}

// SetData replaces the working snapshot's contents with the encoding of
// data. The document map itself stays the same, so prior references remain
// valid.
func (i *Instance[T]) SetData(data T) error {
	doc, err := ToDocument(data)
	if err != nil {
		return err
	}
	working := i.raw.Document()
	for k := range working {
		delete(working, k)
	}
	for k, v := range doc {
		working[k] = v
	}
	return nil
}

// IsNew reports whether no remote document is known to correspond to this
// instance.
func (i *Instance[T]) IsNew() bool { return i.raw.IsNew() }

// IsPartial reports whether the snapshots reflect only a subset of the
// stored fields.
func (i *Instance[T]) IsPartial() bool { return i.raw.IsPartial() }

// Save persists pending changes (see model.Instance.Save).
func (i *Instance[T]) Save(ctx context.Context) error { return i.raw.Save(ctx) }

// Refresh discards local edits in favor of the remote truth.
func (i *Instance[T]) Refresh(ctx context.Context) error { return i.raw.Refresh(ctx) }

// Remove deletes the remote document and detaches the instance.
func (i *Instance[T]) Remove(ctx context.Context) error { return i.raw.Remove(ctx) }

// String returns the indented serialization of the working document.
func (i *Instance[T]) String() string { return i.raw.String() }
