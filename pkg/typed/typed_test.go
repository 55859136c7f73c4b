package typed

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/marl/pkg/adapters/memory"
	"github.com/aretw0/marl/pkg/core"
	"github.com/aretw0/marl/pkg/model"
)

type profile struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func newTypedModel(t *testing.T) (*Model[profile], *memory.Store) {
	t.Helper()
	store := memory.NewStore(memory.Config{})
	return NewModel[profile](model.New(store)), store
}

func TestTyped_CreateSaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	m, _ := newTypedModel(t)

	inst, err := m.Create(profile{Name: "Demo1", Level: 3})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !inst.IsNew() {
		t.Error("expected fresh instance to be new")
	}

	if err := inst.Save(ctx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if inst.IsNew() {
		t.Error("expected instance confirmed after save")
	}

	data, err := inst.Data()
	if err != nil {
		t.Fatalf("Data failed: %v", err)
	}
	if data.ID == "" {
		t.Error("expected generated identifier to surface in typed data")
	}
	if data.Name != "Demo1" || data.Level != 3 {
		t.Errorf("unexpected typed data: %+v", data)
	}

	found, err := m.FindOne(ctx, core.Conditions{"id": data.ID})
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	got, err := found.Data()
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Demo1" {
		t.Errorf("expected persisted value back, got %+v", got)
	}
}

func TestTyped_SetDataPersists(t *testing.T) {
	ctx := context.Background()
	m, _ := newTypedModel(t)

	inst, err := m.Create(profile{Name: "Demo1", Level: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := inst.Save(ctx); err != nil {
		t.Fatal(err)
	}
	data, _ := inst.Data()

	data.Name = "Demo2"
	data.Level = 2
	if err := inst.SetData(data); err != nil {
		t.Fatalf("SetData failed: %v", err)
	}
	if err := inst.Save(ctx); err != nil {
		t.Fatalf("Save after SetData failed: %v", err)
	}

	found, err := m.FindOne(ctx, core.Conditions{"id": data.ID})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := found.Data()
	if got.Name != "Demo2" || got.Level != 2 {
		t.Errorf("expected updated value, got %+v", got)
	}
}

func TestTyped_SetDataKeepsDocumentIdentity(t *testing.T) {
	m, _ := newTypedModel(t)

	inst, err := m.Create(profile{Name: "Demo1"})
	if err != nil {
		t.Fatal(err)
	}
	before := inst.Raw().Document()

	if err := inst.SetData(profile{Name: "Demo2"}); err != nil {
		t.Fatal(err)
	}
	after := inst.Raw().Document()

	before["probe"] = true
	if _, ok := after["probe"]; !ok {
		t.Error("expected SetData to reuse the same working map")
	}
}

func TestTyped_RemoveDetaches(t *testing.T) {
	ctx := context.Background()
	m, store := newTypedModel(t)

	inst, err := m.Create(profile{Name: "Demo1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := inst.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if err := inst.Remove(ctx); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !inst.IsNew() {
		t.Error("expected instance detached after remove")
	}
	if store.Len() != 0 {
		t.Errorf("expected empty store, got %d documents", store.Len())
	}
}

func TestTyped_FindOneNotFound(t *testing.T) {
	m, _ := newTypedModel(t)

	_, err := m.FindOne(context.Background(), core.Conditions{"id": "missing"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
