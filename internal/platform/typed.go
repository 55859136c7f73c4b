package platform

import (
	"github.com/aretw0/marl/pkg/model"
	"github.com/aretw0/marl/pkg/typed"
)

// TypedModel is the platform-level alias for the typed model wrapper.
type TypedModel[T any] = typed.Model[T]

// TypedInstance is the platform-level alias for the typed instance wrapper.
type TypedInstance[T any] = typed.Instance[T]

// NewTyped creates a type-safe wrapper around an existing model.
func NewTyped[T any](m *model.Model) *TypedModel[T] {
	return typed.NewModel[T](m)
}
