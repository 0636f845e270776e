package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle
// hooks.
type Metrics struct {
	turns      *prometheus.CounterVec
	turnTime   prometheus.Histogram
	flowsOpen  *prometheus.CounterVec
	flowsClose *prometheus.CounterVec
	commits    *prometheus.CounterVec
	commitTime prometheus.Histogram
	duplicates *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrflow",
			Name:      "turns_total",
			Help:      "Handled conversation turns by intent and resulting directive.",
		}, []string{"intent", "directive"}),
		turnTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hrflow",
			Name:      "turn_duration_seconds",
			Help:      "Wall time spent handling one turn.",
			Buckets:   prometheus.DefBuckets,
		}),
		flowsOpen: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrflow",
			Name:      "flows_opened_total",
			Help:      "Pending flows opened by action kind.",
		}, []string{"action"}),
		flowsClose: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrflow",
			Name:      "flows_closed_total",
			Help:      "Pending flows closed by action kind and outcome.",
		}, []string{"action", "outcome"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrflow",
			Name:      "commits_total",
			Help:      "Successful executor writes by action kind.",
		}, []string{"action"}),
		commitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hrflow",
			Name:      "commit_duration_seconds",
			Help:      "Wall time spent in the action executor.",
			Buckets:   prometheus.DefBuckets,
		}),
		duplicates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrflow",
			Name:      "duplicates_suppressed_total",
			Help:      "Duplicate submissions answered from the commit record.",
		}, []string{"action"}),
	}
	reg.MustRegister(m.turns, m.turnTime, m.flowsOpen, m.flowsClose,
		m.commits, m.commitTime, m.duplicates)
	return m
}

// Hooks bridges the collectors into engine lifecycle hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, ev *domain.TurnEvent) {
			m.turns.WithLabelValues(ev.Intent, string(ev.Directive)).Inc()
			m.turnTime.Observe(ev.Duration.Seconds())
		},
		OnFlowOpened: func(_ context.Context, ev *domain.FlowEvent) {
			m.flowsOpen.WithLabelValues(string(ev.ActionKind)).Inc()
		},
		OnFlowClosed: func(_ context.Context, ev *domain.FlowEvent) {
			m.flowsClose.WithLabelValues(string(ev.ActionKind), string(ev.Outcome)).Inc()
		},
		OnCommit: func(_ context.Context, ev *domain.CommitEvent) {
			m.commits.WithLabelValues(string(ev.ActionKind)).Inc()
			m.commitTime.Observe(ev.Duration.Seconds())
		},
		OnDuplicate: func(_ context.Context, ev *domain.CommitEvent) {
			m.duplicates.WithLabelValues(string(ev.ActionKind)).Inc()
		},
	}
}

// Merge combines hook sets so metrics can coexist with audit logging or
// custom callers' hooks. Later callbacks run after earlier ones.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, s := range sets {
		out.OnTurn = chainTurn(out.OnTurn, s.OnTurn)
		out.OnFlowOpened = chainFlow(out.OnFlowOpened, s.OnFlowOpened)
		out.OnFlowClosed = chainFlow(out.OnFlowClosed, s.OnFlowClosed)
		out.OnCommit = chainCommit(out.OnCommit, s.OnCommit)
		out.OnDuplicate = chainCommit(out.OnDuplicate, s.OnDuplicate)
	}
	return out
}

func chainTurn(a, b func(context.Context, *domain.TurnEvent)) func(context.Context, *domain.TurnEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, ev *domain.TurnEvent) { a(ctx, ev); b(ctx, ev) }
}

func chainFlow(a, b func(context.Context, *domain.FlowEvent)) func(context.Context, *domain.FlowEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, ev *domain.FlowEvent) { a(ctx, ev); b(ctx, ev) }
}

func chainCommit(a, b func(context.Context, *domain.CommitEvent)) func(context.Context, *domain.CommitEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, ev *domain.CommitEvent) { a(ctx, ev); b(ctx, ev) }
}
