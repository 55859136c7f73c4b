package reactivity_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/marl/pkg/adapters/file"
	"github.com/aretw0/marl/pkg/core"
)

// setupWatchTest opens two handles on the same store file: a writer and an
// observer. The observer is the one whose Watch channel is under test.
func setupWatchTest(t *testing.T, pattern string) (*file.Store, <-chan core.Event, context.CancelFunc) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.json")

	writer := file.NewStore(file.Config{Path: path})
	require.NoError(t, writer.Initialize(context.Background()))

	observer := file.NewStore(file.Config{Path: path})
	require.NoError(t, observer.Initialize(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	events, err := observer.Watch(ctx, pattern)
	require.NoError(t, err, "file store should be watchable")
	require.NotNil(t, events)

	// Give fsnotify a moment to arm before triggering writes.
	time.Sleep(100 * time.Millisecond)

	return writer, events, cancel
}

// waitFor drains the channel until an event for the given ID arrives or the
// deadline passes.
func waitFor(t *testing.T, events <-chan core.Event, id string, timeout time.Duration) (core.Event, bool) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return core.Event{}, false
			}
			if e.ID == id {
				return e, true
			}
			t.Logf("skipping event: %s %s", e.Type, e.ID)
		case <-deadline:
			return core.Event{}, false
		}
	}
}

// TestWatch_ExternalInsert verifies that a write through another handle
// surfaces as a CREATE event on the watching handle.
func TestWatch_ExternalInsert(t *testing.T) {
	writer, events, _ := setupWatchTest(t, "")
	ctx := context.Background()

	_, err := writer.Insert(ctx, core.Document{"_id": "doc-a", "name": "Demo1"})
	require.NoError(t, err)

	event, ok := waitFor(t, events, "doc-a", 5*time.Second)
	require.True(t, ok, "timed out waiting for create event")
	assert.Equal(t, core.EventCreate, event.Type)
}

// TestWatch_ModifyAndDelete verifies the full event sequence for one
// document: create, modify, delete.
func TestWatch_ModifyAndDelete(t *testing.T) {
	writer, events, _ := setupWatchTest(t, "")
	ctx := context.Background()

	_, err := writer.Insert(ctx, core.Document{"_id": "doc-a", "name": "Demo1"})
	require.NoError(t, err)
	event, ok := waitFor(t, events, "doc-a", 5*time.Second)
	require.True(t, ok)
	require.Equal(t, core.EventCreate, event.Type)

	_, err = writer.Update(ctx, core.Conditions{"_id": "doc-a"},
		core.Changes{core.OpSet: {"name": "Demo2"}}, core.UpdateOptions{})
	require.NoError(t, err)
	event, ok = waitFor(t, events, "doc-a", 5*time.Second)
	require.True(t, ok)
	assert.Equal(t, core.EventModify, event.Type)

	_, err = writer.Remove(ctx, core.Conditions{"_id": "doc-a"})
	require.NoError(t, err)
	event, ok = waitFor(t, events, "doc-a", 5*time.Second)
	require.True(t, ok)
	assert.Equal(t, core.EventDelete, event.Type)
}

// TestWatch_PatternFiltering verifies that the ID glob filters which
// documents produce events.
func TestWatch_PatternFiltering(t *testing.T) {
	writer, events, _ := setupWatchTest(t, "users/*")
	ctx := context.Background()

	_, err := writer.Insert(ctx, core.Document{"_id": "groups/admin"})
	require.NoError(t, err)
	_, err = writer.Insert(ctx, core.Document{"_id": "users/alice"})
	require.NoError(t, err)

	event, ok := waitFor(t, events, "users/alice", 5*time.Second)
	require.True(t, ok, "expected event for matching document")
	assert.Equal(t, core.EventCreate, event.Type)

	// The non-matching document must never surface. Drain briefly.
	select {
	case e, open := <-events:
		if open {
			assert.NotEqual(t, "groups/admin", e.ID)
		}
	case <-time.After(300 * time.Millisecond):
	}
}

// TestWatch_ChannelClosesOnCancel verifies shutdown: cancelling the watch
// context closes the event channel.
func TestWatch_ChannelClosesOnCancel(t *testing.T) {
	_, events, cancel := setupWatchTest(t, "")

	cancel()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, open := <-events:
			if !open {
				return // closed as expected
			}
		case <-deadline:
			t.Fatal("event channel did not close after cancel")
		}
	}
}

// TestWatch_DebouncesBursts verifies that a burst of writes collapses into a
// single reconciliation pass rather than one event per filesystem signal.
func TestWatch_DebouncesBursts(t *testing.T) {
	writer, events, _ := setupWatchTest(t, "")
	ctx := context.Background()

	_, err := writer.Insert(ctx, core.Document{"_id": "doc-a", "v": 0})
	require.NoError(t, err)
	_, ok := waitFor(t, events, "doc-a", 5*time.Second)
	require.True(t, ok)

	// Three rapid writes within the debounce window.
	for i := 1; i <= 3; i++ {
		_, err := writer.Update(ctx, core.Conditions{"_id": "doc-a"},
			core.Changes{core.OpSet: {"v": i}}, core.UpdateOptions{})
		require.NoError(t, err)
	}

	count := 0
	timeout := time.After(2 * time.Second)
loop:
	for {
		select {
		case e, open := <-events:
			if !open {
				break loop
			}
			if e.ID == "doc-a" {
				count++
			}
		case <-timeout:
			break loop
		}
	}

	// Each raw fsnotify signal within the window folds into one reconcile;
	// diffing against the previous snapshot then yields one MODIFY per pass.
	assert.GreaterOrEqual(t, count, 1, "expected at least one modify event")
	assert.LessOrEqual(t, count, 3, "expected burst to be debounced")
}
