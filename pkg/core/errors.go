package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrNotFound is returned by Store.FindOne when no document matches.
	ErrNotFound = errors.New("document not found")

	// ErrDetached is returned when an instance has no backing model.
	ErrDetached = errors.New("instance is detached (missing model)")
)

// ValidationError indicates a save was aborted before any I/O because the
// working document failed model validation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError wraps a failure from one of the store primitives.
type StoreError struct {
	Op  string // "insert", "update", "find", "remove"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// HookError wraps a rejection from a lifecycle hook. It aborts the
// remaining pipeline steps of the operation that triggered it.
type HookError struct {
	Hook string // "saving", "received"
	Err  error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("%s hook failed: %v", e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }
