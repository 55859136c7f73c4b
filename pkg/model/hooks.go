package model

import (
	"context"

	"github.com/aretw0/marl/pkg/core"
)

// HookFuncs adapts plain functions to core.Hooks. Nil fields are no-ops,
// so callers implement only the notifications they care about.
type HookFuncs struct {
	OnSaving   func(ctx context.Context, doc core.Document, changes core.Changes) error
	OnReceived func(ctx context.Context, conds core.Conditions, doc core.Document, apply func(core.Document) core.Document) (core.Document, error)
}

// SavingDocument implements core.Hooks.
func (h HookFuncs) SavingDocument(ctx context.Context, doc core.Document, changes core.Changes) error {
	if h.OnSaving == nil {
		return nil
	}
	return h.OnSaving(ctx, doc, changes)
}

// DocumentReceived implements core.Hooks.
func (h HookFuncs) DocumentReceived(ctx context.Context, conds core.Conditions, doc core.Document, apply func(core.Document) core.Document) (core.Document, error) {
	if h.OnReceived == nil {
		return doc, nil
	}
	return h.OnReceived(ctx, conds, doc, apply)
}

var _ core.Hooks = HookFuncs{}
