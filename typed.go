package marl

import (
	"github.com/aretw0/marl/internal/platform"
	"github.com/aretw0/marl/pkg/model"
)

// TypedModel wraps a raw model to produce typed instances.
// It converts between raw documents and typed structs via JSON encoding.
type TypedModel[T any] = platform.TypedModel[T]

// TypedInstance is a typed view over a raw document instance.
type TypedInstance[T any] = platform.TypedInstance[T]

// NewTyped creates a new type-safe model wrapper.
// T is the struct type stored in the document.
func NewTyped[T any](m *model.Model) *TypedModel[T] {
	return platform.NewTyped[T](m)
}
