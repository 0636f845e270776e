package workflow

import (
	"testing"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeduplicatorWindow(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	state := domain.NewSessionState("c1", now)
	state.RecordCommit(domain.CommitRecord{
		Fingerprint: "fp-1",
		Kind:        domain.ActionLeaveRequest,
		Result:      domain.CommitResult{ID: "LR-0001", Status: domain.CommitPending},
		CommittedAt: now,
	})

	t.Run("hit inside window", func(t *testing.T) {
		d := NewDeduplicator(5*time.Minute, clock)
		rec, dup := d.Check(state, "fp-1")
		require.True(t, dup)
		assert.Equal(t, "LR-0001", rec.Result.ID)
	})

	t.Run("miss for unknown fingerprint", func(t *testing.T) {
		d := NewDeduplicator(5*time.Minute, clock)
		_, dup := d.Check(state, "fp-other")
		assert.False(t, dup)
	})

	t.Run("expired outside window", func(t *testing.T) {
		later := now.Add(10 * time.Minute)
		d := NewDeduplicator(5*time.Minute, func() time.Time { return later })
		_, dup := d.Check(state, "fp-1")
		assert.False(t, dup)
	})

	t.Run("zero window never expires", func(t *testing.T) {
		later := now.Add(24 * time.Hour)
		d := NewDeduplicator(0, func() time.Time { return later })
		_, dup := d.Check(state, "fp-1")
		assert.True(t, dup)
	})
}

func TestDedupWindowOption(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	var current = now
	clock := func() time.Time { return current }

	engine := newTestEngine(t, sufficientGateway(), &fakeExecutor{}, WithClock(clock), WithDedupWindow(time.Minute))
	ctx := t.Context()

	_, err := engine.Handle(ctx, "c1", "leave_request", fullLeaveSlots, "")
	require.NoError(t, err)
	d, err := engine.Handle(ctx, "c1", domain.IntentConfirm, nil, "")
	require.NoError(t, err)
	require.True(t, d.Success)

	// Past the window, a confirm no longer replays: there is nothing
	// pending, so it is a protocol violation rather than a silent write.
	current = now.Add(2 * time.Minute)
	late, err := engine.Handle(ctx, "c1", domain.IntentConfirm, nil, "")
	require.NoError(t, err)
	assert.Equal(t, domain.DirectiveProtocolViolation, late.Kind)
}
