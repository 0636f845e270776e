package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/peoplehub/hrflow/pkg/domain"
)

func TestMetricsHooksCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	hooks := m.Hooks()

	ctx := t.Context()
	hooks.OnTurn(ctx, &domain.TurnEvent{
		Intent:    "leave_request",
		Directive: domain.DirectiveAskForSlot,
		Duration:  5 * time.Millisecond,
	})
	hooks.OnFlowOpened(ctx, &domain.FlowEvent{ActionKind: domain.ActionLeaveRequest})
	hooks.OnCommit(ctx, &domain.CommitEvent{ActionKind: domain.ActionLeaveRequest, RequestID: "LR-0001"})
	hooks.OnDuplicate(ctx, &domain.CommitEvent{ActionKind: domain.ActionLeaveRequest, RequestID: "LR-0001"})

	assert.Equal(t, float64(1), testutil.ToFloat64(m.turns.WithLabelValues("leave_request", "ask_for_slot")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.flowsOpen.WithLabelValues("leave_request")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.commits.WithLabelValues("leave_request")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.duplicates.WithLabelValues("leave_request")))
}

func TestMergeChainsCallbacks(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnCommit: func(_ context.Context, _ *domain.CommitEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnCommit: func(_ context.Context, _ *domain.CommitEvent) { order = append(order, "b") },
		OnTurn:   func(_ context.Context, _ *domain.TurnEvent) { order = append(order, "turn") },
	}

	merged := Merge(a, b)
	merged.OnCommit(t.Context(), &domain.CommitEvent{})
	merged.OnTurn(t.Context(), &domain.TurnEvent{})

	assert.Equal(t, []string{"a", "b", "turn"}, order)
	assert.Nil(t, merged.OnFlowOpened)
}
