package integration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl"
	"github.com/aretw0/marl/pkg/adapters/file"
	"github.com/aretw0/marl/pkg/adapters/memory"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/model"
)

// TestLifecycle_FileBacked exercises the full instance lifecycle against the
// file adapter: insert, cached find, diff-based update, validation, hooks
// and removal, all through the public facade.
func TestLifecycle_FileBacked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.json")

	store, err := marl.Init(path)
	require.NoError(t, err)

	saving := 0
	hooks := model.HookFuncs{
		OnSaving: func(ctx context.Context, doc core.Document, changes core.Changes) error {
			saving++
			return nil
		},
	}
	validator := core.ValidatorFunc(func(doc core.Document) error {
		if doc["name"] == nil || doc["name"] == "" {
			return fmt.Errorf("name is required")
		}
		return nil
	})

	m, err := marl.New("",
		marl.WithStore(store),
		marl.WithCache(memory.NewCache()),
		marl.WithValidator(validator),
		marl.WithHooks(hooks),
	)
	require.NoError(t, err)

	// 1. Validation blocks an invalid document before any I/O.
	bad := m.Create(marl.Document{"level": 1})
	err = bad.Save(ctx)
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, saving, "saving hook must not run on validation failure")

	// 2. Insert.
	inst := m.Create(marl.Document{"name": "Demo1", "level": 1})
	require.NoError(t, inst.Save(ctx))
	require.False(t, inst.IsNew())
	id := inst.Document()["id"]
	require.NotEmpty(t, id)
	assert.Equal(t, 1, saving)

	// 3. Find through the model. The save populated the cache, so this is a
	// hit and must still yield an independent instance.
	found, err := m.FindOne(ctx, marl.Conditions{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "Demo1", found.Document()["name"])
	found.Document()["probe"] = true
	assert.NotContains(t, inst.Document(), "probe")

	// 4. Diff-based update.
	inst.Document()["level"] = 2
	require.NoError(t, inst.Save(ctx))
	assert.Equal(t, 2, saving)

	// A clean save is a no-op and skips the hook.
	require.NoError(t, inst.Save(ctx))
	assert.Equal(t, 2, saving)

	// 5. The change survives a cold reopen of the store file.
	reopened, err := marl.New(path)
	require.NoError(t, err)
	fresh, err := reopened.FindOne(ctx, marl.Conditions{"id": id})
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh.Document()["level"])

	// 6. Removal detaches the instance and deletes the stored document.
	require.NoError(t, inst.Remove(ctx))
	assert.True(t, inst.IsNew())
	_, err = reopened.FindOne(ctx, marl.Conditions{"id": id})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

// TestLifecycle_ExternalChange verifies reconciliation across two handles on
// the same store file: refresh picks up foreign writes, and a refresh after a
// foreign delete detaches gracefully instead of failing.
func TestLifecycle_ExternalChange(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.json")

	storeA, err := marl.Init(path)
	require.NoError(t, err)
	storeB, err := marl.Init(path)
	require.NoError(t, err)

	mA, err := marl.New("", marl.WithStore(storeA))
	require.NoError(t, err)
	mB, err := marl.New("", marl.WithStore(storeB))
	require.NoError(t, err)

	inst := mA.Create(marl.Document{"name": "Demo1"})
	require.NoError(t, inst.Save(ctx))
	id := inst.Document()["id"]

	// Handle B edits the same document.
	require.NoError(t, storeB.(*file.Store).Reload(ctx))
	other, err := mB.FindOne(ctx, marl.Conditions{"id": id})
	require.NoError(t, err)
	other.Document()["name"] = "Demo2"
	require.NoError(t, other.Save(ctx))

	// Handle A refreshes and sees the foreign write.
	require.NoError(t, storeA.(*file.Store).Reload(ctx))
	require.NoError(t, inst.Refresh(ctx))
	assert.Equal(t, "Demo2", inst.Document()["name"])

	// Handle B deletes; a refresh on A detaches instead of erroring.
	require.NoError(t, other.Remove(ctx))
	require.NoError(t, storeA.(*file.Store).Reload(ctx))
	require.NoError(t, inst.Refresh(ctx))
	assert.True(t, inst.IsNew())
	assert.True(t, inst.IsPartial())
	assert.Equal(t, "Demo2", inst.Document()["name"], "local snapshot survives a remote delete")
}

// TestLifecycle_ReadOnly ensures read-only mode blocks every write path while
// reads keep working.
func TestLifecycle_ReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docs.json")

	// Seed data with a writable handle first.
	seed, err := marl.New(path)
	require.NoError(t, err)
	doc := seed.Create(marl.Document{"name": "Demo1"})
	require.NoError(t, doc.Save(ctx))
	id := doc.Document()["id"]

	m, err := marl.New(path, marl.WithReadOnly(true))
	require.NoError(t, err)

	found, err := m.FindOne(ctx, marl.Conditions{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "Demo1", found.Document()["name"])

	// Writes fail with ErrReadOnly wrapped in a store error.
	fresh := m.Create(marl.Document{"name": "forbidden"})
	err = fresh.Save(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, file.ErrReadOnly), "expected ErrReadOnly, got: %v", err)

	found.Document()["name"] = "mutated"
	err = found.Save(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, file.ErrReadOnly))

	err = found.Remove(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, file.ErrReadOnly))
}
