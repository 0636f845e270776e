// Package tests provides reusable contract suites that verify adapter
// compliance with the ports interfaces.
package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/peoplehub/hrflow/pkg/ports"
)

// RunSessionStoreContract verifies that a store behaves per
// ports.SessionStore. Call it from each adapter's test package.
func RunSessionStoreContract(t *testing.T, store ports.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load_NotFound", func(t *testing.T) {
		_, err := store.Load(ctx, "missing-conversation")
		if !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save_Load_RoundTrip", func(t *testing.T) {
		state := domain.NewSessionState("conv-rt", time.Now().UTC())
		state.ActiveFlow = domain.NewPendingFlow(domain.ActionLeaveRequest, state.CreatedAt)
		state.ActiveFlow.Frame.Merge(map[string]string{"leave_type": "annual"})

		if err := store.Save(ctx, "conv-rt", state); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := store.Load(ctx, "conv-rt")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if loaded.ConversationID != "conv-rt" {
			t.Errorf("conversation ID mismatch: got %q", loaded.ConversationID)
		}
		if loaded.ActiveFlow == nil {
			t.Fatal("active flow lost in round trip")
		}
		if v, _ := loaded.ActiveFlow.Frame.Get("leave_type"); v != "annual" {
			t.Errorf("slot value lost in round trip: got %q", v)
		}
	})

	t.Run("Load_Isolated_From_Caller_Mutation", func(t *testing.T) {
		state := domain.NewSessionState("conv-iso", time.Now().UTC())
		if err := store.Save(ctx, "conv-iso", state); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		first, err := store.Load(ctx, "conv-iso")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		first.ActiveFlow = domain.NewPendingFlow(domain.ActionExcuseRequest, time.Now())

		second, err := store.Load(ctx, "conv-iso")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if second.ActiveFlow != nil {
			t.Error("mutating a loaded state leaked into the store")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		state := domain.NewSessionState("conv-del", time.Now().UTC())
		if err := store.Save(ctx, "conv-del", state); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := store.Delete(ctx, "conv-del"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, err := store.Load(ctx, "conv-del"); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		now := time.Now().UTC()
		for _, id := range []string{"conv-a", "conv-b"} {
			if err := store.Save(ctx, id, domain.NewSessionState(id, now)); err != nil {
				t.Fatalf("save failed: %v", err)
			}
		}

		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		lookup := make(map[string]bool, len(ids))
		for _, id := range ids {
			lookup[id] = true
		}
		for _, id := range []string{"conv-a", "conv-b"} {
			if !lookup[id] {
				t.Errorf("conversation %s missing from list", id)
			}
		}
	})

	t.Run("EvictIdle", func(t *testing.T) {
		stale := domain.NewSessionState("conv-stale", time.Now().UTC().Add(-2*time.Hour))
		stale.LastActivity = stale.CreatedAt
		fresh := domain.NewSessionState("conv-fresh", time.Now().UTC())

		if err := store.Save(ctx, "conv-stale", stale); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := store.Save(ctx, "conv-fresh", fresh); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		evicted, err := store.EvictIdle(ctx, time.Hour)
		if err != nil {
			t.Fatalf("evict failed: %v", err)
		}

		lookup := make(map[string]bool, len(evicted))
		for _, id := range evicted {
			lookup[id] = true
		}
		if !lookup["conv-stale"] {
			t.Error("stale conversation not evicted")
		}
		if lookup["conv-fresh"] {
			t.Error("fresh conversation evicted")
		}
		if _, err := store.Load(ctx, "conv-stale"); !errors.Is(err, domain.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound for evicted session, got %v", err)
		}
	})
}
