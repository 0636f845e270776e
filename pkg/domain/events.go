package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn       EventType = "turn"
	EventFlowOpened EventType = "flow_opened"
	EventFlowClosed EventType = "flow_closed"
	EventCommit     EventType = "commit"
	EventDuplicate  EventType = "duplicate_suppressed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// TurnEvent describes one handled inbound message.
type TurnEvent struct {
	EventBase
	Intent    string        `json:"intent"`
	Directive DirectiveKind `json:"directive"`
	Duration  time.Duration `json:"duration"`
}

// FlowEvent describes a flow opening or closing.
type FlowEvent struct {
	EventBase
	ActionKind ActionKind        `json:"action_kind"`
	Outcome    ConfirmationState `json:"outcome,omitempty"`
}

// CommitEvent describes an executor write or a suppressed duplicate.
type CommitEvent struct {
	EventBase
	ActionKind ActionKind    `json:"action_kind"`
	RequestID  string        `json:"request_id,omitempty"`
	Duration   time.Duration `json:"duration"`
	Replayed   bool          `json:"replayed,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability. Nil hooks
// are skipped.
type LifecycleHooks struct {
	OnTurn       func(context.Context, *TurnEvent)
	OnFlowOpened func(context.Context, *FlowEvent)
	OnFlowClosed func(context.Context, *FlowEvent)
	OnCommit     func(context.Context, *CommitEvent)
	OnDuplicate  func(context.Context, *CommitEvent)
}
