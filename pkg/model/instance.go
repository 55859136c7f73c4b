package model

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/diff"
)

// Instance owns one document's lifecycle. It tracks the last snapshot known
// to match the backing store (original) and the current working snapshot
// (modified), which callers mutate directly between operations.
//
// Precondition: a single logical operation per instance at a time. The
// instance provides no internal mutual exclusion; callers must not issue
// overlapping Save/Refresh/Remove calls on one instance, and must not
// mutate the working document concurrently with an in-flight operation.
type Instance struct {
	model     *Model
	original  core.Document
	modified  core.Document
	isNew     bool
	isPartial bool
}

// SaveOptions carries the optional explicit inputs of a save. Zero value
// means: derive conditions from the working document and compute the change
// set by diffing the snapshots.
type SaveOptions struct {
	// Conditions narrows the update target. The instance's own selecting
	// condition is merged on top and takes precedence on conflicts.
	Conditions core.Conditions

	// Changes, when non-nil, is persisted as-is. Validation and diffing
	// are skipped.
	Changes core.Changes
}

// Document returns the live working snapshot. Callers mutate it directly,
// then call Save to persist the difference.
func (i *Instance) Document() core.Document { return i.modified }

// Original returns a deep copy of the last snapshot known to match the
// backing store.
func (i *Instance) Original() core.Document { return i.original.Clone() }

// IsNew reports whether no remote document is known to correspond to this
// instance. True until the first successful insert or confirmed remote
// match, and again after removal.
func (i *Instance) IsNew() bool { return i.isNew }

// IsPartial reports whether the snapshots are known to reflect only a
// subset of the stored fields.
func (i *Instance) IsPartial() bool { return i.isPartial }

// Save validates the working document, computes the minimal change set
// against the original snapshot and persists it: an insert for a new
// instance, a diff-based partial update otherwise. On success both
// snapshots are replaced by the authoritative post-write document.
//
// A clean, non-new instance short-circuits: no store call is made.
func (i *Instance) Save(ctx context.Context) error {
	return i.SaveWith(ctx, SaveOptions{})
}

// SaveWith is Save with explicit conditions and/or a caller-supplied change
// set (see SaveOptions).
func (i *Instance) SaveWith(ctx context.Context, opts SaveOptions) error {
	if i.model == nil {
		return core.ErrDetached
	}
	m := i.model

	conds := i.selectConditions(opts.Conditions)

	changes := opts.Changes
	if changes == nil {
		if m.validator != nil {
			if err := m.validator.Validate(i.modified); err != nil {
				return &core.ValidationError{Err: err}
			}
		}
		// Diff the storage-shaped snapshots so change paths carry storage
		// field names, matching the reverse-mapped update conditions.
		changes = diff.Diff(m.builder.Reverse(i.original), m.builder.Reverse(i.modified))
		if changes.IsEmpty() && !i.isNew {
			m.logger.DebugContext(ctx, "save short-circuit: no changes")
			return nil
		}
	}

	for _, h := range m.hooks {
		if err := h.SavingDocument(ctx, i.modified, changes); err != nil {
			return &core.HookError{Hook: "saving", Err: err}
		}
	}

	var authoritative core.Document
	if i.isNew {
		inserted, err := m.store.Insert(ctx, m.builder.Reverse(i.modified.Clone()))
		if err != nil {
			return &core.StoreError{Op: "insert", Err: err}
		}
		authoritative = inserted
	} else {
		changed, err := m.store.Update(ctx, conds, changes, core.UpdateOptions{Ack: true})
		if err != nil {
			return &core.StoreError{Op: "update", Err: err}
		}

		// Identifying fields may themselves have changed in this write.
		conds = i.selectConditions(nil)

		if !changed {
			// The store acknowledged but touched nothing, so the local
			// working snapshot is treated as authoritative without a
			// re-fetch. Known staleness risk when the remote copy drifted.
			authoritative = m.builder.Reverse(i.modified.Clone())
		} else {
			doc, err := m.store.FindOne(ctx, conds)
			if err != nil {
				return &core.StoreError{Op: "find", Err: err}
			}
			authoritative = doc
		}
	}

	received, err := m.receive(ctx, conds, authoritative)
	if err != nil {
		return err
	}

	i.original = received.Clone()
	i.modified = received.Clone()
	i.isNew = false
	i.isPartial = false
	return nil
}

// Refresh discards local edits in favor of the remote truth. When the
// remote document no longer exists this is not an error: the instance is
// flagged new and partial, and the working snapshot is preserved as the
// (unconfirmed) original.
func (i *Instance) Refresh(ctx context.Context) error {
	if i.model == nil {
		return core.ErrDetached
	}
	m := i.model

	conds := core.Conditions(m.builder.Reverse(core.Document(m.builder.SelectOne(i.original))))

	raw, err := m.store.FindOne(ctx, conds)
	if errors.Is(err, core.ErrNotFound) {
		i.isPartial = true
		i.isNew = true
		i.original = i.modified.Clone()
		return nil
	}
	if err != nil {
		return &core.StoreError{Op: "find", Err: err}
	}

	received, err := m.receive(ctx, conds, raw)
	if err != nil {
		return err
	}

	i.original = received.Clone()
	i.modified = received.Clone()
	i.isNew = false
	i.isPartial = false
	return nil
}

// Update is an alias for Refresh.
func (i *Instance) Update(ctx context.Context) error {
	return i.Refresh(ctx)
}

// Remove deletes the remote document matching this instance's selecting
// condition, evicting the cache entry when a document was actually removed.
// A new instance has nothing to remove remotely; either way the instance
// ends up detached from the store (IsNew reports true).
func (i *Instance) Remove(ctx context.Context) error {
	if i.model == nil {
		return core.ErrDetached
	}
	m := i.model

	conds := core.Conditions(m.builder.Reverse(core.Document(m.builder.SelectOne(i.original))))

	if !i.isNew {
		removed, err := m.store.Remove(ctx, conds)
		if err != nil {
			return &core.StoreError{Op: "remove", Err: err}
		}
		if removed > 0 && m.cache != nil {
			m.cache.Drop(ctx, conds)
		}
	}

	i.isNew = true
	return nil
}

// Delete is an alias for Remove.
func (i *Instance) Delete(ctx context.Context) error {
	return i.Remove(ctx)
}

// ToJSON returns a deep copy of the current working document.
func (i *Instance) ToJSON() core.Document {
	return i.modified.Clone()
}

// String returns a stable, human-readable indented serialization of the
// working document. Keys are emitted in sorted order.
func (i *Instance) String() string {
	data, err := json.MarshalIndent(i.modified, "", "  ")
	if err != nil {
		return "<unserializable document>"
	}
	return string(data)
}

// selectConditions merges the instance's own selecting condition over any
// caller-supplied narrowing conditions (the instance wins on conflicts) and
// reverse-maps the result to storage field names.
func (i *Instance) selectConditions(extra core.Conditions) core.Conditions {
	conds := make(core.Conditions, len(extra)+1)
	for k, v := range extra {
		conds[k] = core.DeepCopyValue(v)
	}
	for k, v := range i.model.builder.SelectOneDownstream(i.modified) {
		conds[k] = v
	}
	return core.Conditions(i.model.builder.Reverse(core.Document(conds)))
}
