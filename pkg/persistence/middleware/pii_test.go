package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplehub/hrflow/pkg/adapters/memory"
	"github.com/peoplehub/hrflow/pkg/domain"
)

func TestPIIMasksCommittedFreeText(t *testing.T) {
	inner := memory.NewStore()
	store := Chain(inner, NewPIIMiddleware([]string{"^reason$"}))
	ctx := t.Context()

	state := domain.NewSessionState("EMP001", time.Now().UTC())
	frame := domain.NewSlotFrame(domain.ActionExcuseRequest)
	frame.Values["excuse_type"] = "late_arrival"
	frame.Values["reason"] = "doctor appointment"
	state.RecordCommit(domain.CommitRecord{
		Fingerprint: frame.Fingerprint(),
		Kind:        domain.ActionExcuseRequest,
		Frame:       frame,
		Result:      domain.CommitResult{ID: "EX-0001", Status: domain.CommitPending},
		CommittedAt: time.Now().UTC(),
	})

	require.NoError(t, store.Save(ctx, "EMP001", state))

	loaded, err := store.Load(ctx, "EMP001")
	require.NoError(t, err)
	require.Len(t, loaded.RecentCommits, 1)
	assert.Equal(t, "***", loaded.RecentCommits[0].Frame.Values["reason"])
	assert.Equal(t, "late_arrival", loaded.RecentCommits[0].Frame.Values["excuse_type"])

	// The engine's in-memory record is untouched.
	assert.Equal(t, "doctor appointment", state.RecentCommits[0].Frame.Values["reason"])
}

func TestPIILeavesActiveFlowVerbatim(t *testing.T) {
	inner := memory.NewStore()
	store := Chain(inner, NewPIIMiddleware([]string{"^reason$"}))
	ctx := t.Context()

	state := domain.NewSessionState("EMP002", time.Now().UTC())
	flow := domain.NewPendingFlow(domain.ActionExcuseRequest, state.CreatedAt)
	flow.Frame.Values["reason"] = "traffic jam"
	state.ActiveFlow = flow

	require.NoError(t, store.Save(ctx, "EMP002", state))

	loaded, err := store.Load(ctx, "EMP002")
	require.NoError(t, err)
	assert.Equal(t, "traffic jam", loaded.ActiveFlow.Frame.Values["reason"])
}
