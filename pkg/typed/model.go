// Package typed provides a type-safe layer over raw document instances.
// Structs are converted to and from documents via their JSON encoding.
package typed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/model"
)

// Model wraps a raw model to produce typed instances.
type Model[T any] struct {
	raw *model.Model
}

// NewModel creates a type-safe wrapper around an existing model.
func NewModel[T any](raw *model.Model) *Model[T] {
	return &Model[T]{raw: raw}
}

// Raw returns the underlying untyped model.
func (m *Model[T]) Raw() *model.Model { return m.raw }

// Create wraps a never-persisted value. The first Save will insert it.
func (m *Model[T]) Create(data T) (*Instance[T], error) {
	doc, err := ToDocument(data)
	if err != nil {
		return nil, err
	}
	return &Instance[T]{raw: m.raw.Create(doc)}, nil
}

// Wrap creates a typed instance around an initial value with explicit
// lifecycle flags.
func (m *Model[T]) Wrap(data T, isNew, isPartial bool) (*Instance[T], error) {
	doc, err := ToDocument(data)
	if err != nil {
		return nil, err
	}
	return &Instance[T]{raw: m.raw.Wrap(doc, isNew, isPartial)}, nil
}

// FindOne fetches the document matching the conditions and wraps it as a
// confirmed typed instance.
func (m *Model[T]) FindOne(ctx context.Context, conds core.Conditions) (*Instance[T], error) {
	inst, err := m.raw.FindOne(ctx, conds)
	if err != nil {
		return nil, err
	}
	return &Instance[T]{raw: inst}, nil
}

// ToDocument converts a typed value to a raw document.
func ToDocument[T any](data T) (core.Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal typed data: %w", err)
	}
	var doc core.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert typed data to document: %w", err)
	}
	return doc, nil
}

// FromDocument converts a raw document to a typed value.
func FromDocument[T any](doc core.Document) (T, error) {
	var data T
	raw, err := json.Marshal(doc)
	if err != nil {
		return data, fmt.Errorf("document marshal failed: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, fmt.Errorf("unmarshal to target type failed: %w", err)
	}
	return data, nil
}
