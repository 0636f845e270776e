package observability

import (
	"context"
	"log/slog"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// AuditHooks logs every lifecycle event through the given logger. Turn
// events log at debug; state-changing events log at info.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, ev *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn handled",
				"conversation", ev.ConversationID,
				"intent", ev.Intent,
				"directive", ev.Directive,
				"duration", ev.Duration)
		},
		OnFlowOpened: func(ctx context.Context, ev *domain.FlowEvent) {
			logger.InfoContext(ctx, "flow opened",
				"conversation", ev.ConversationID,
				"action", ev.ActionKind)
		},
		OnFlowClosed: func(ctx context.Context, ev *domain.FlowEvent) {
			logger.InfoContext(ctx, "flow closed",
				"conversation", ev.ConversationID,
				"action", ev.ActionKind,
				"outcome", ev.Outcome)
		},
		OnCommit: func(ctx context.Context, ev *domain.CommitEvent) {
			logger.InfoContext(ctx, "action committed",
				"conversation", ev.ConversationID,
				"action", ev.ActionKind,
				"request_id", ev.RequestID,
				"duration", ev.Duration)
		},
		OnDuplicate: func(ctx context.Context, ev *domain.CommitEvent) {
			logger.InfoContext(ctx, "duplicate suppressed",
				"conversation", ev.ConversationID,
				"action", ev.ActionKind,
				"request_id", ev.RequestID)
		},
	}
}
