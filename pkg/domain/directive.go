package domain

// DirectiveKind discriminates the engine's structured outputs.
type DirectiveKind string

const (
	DirectiveAskForSlot          DirectiveKind = "ask_for_slot"
	DirectivePresentConfirmation DirectiveKind = "present_confirmation"
	DirectiveValidationFailed    DirectiveKind = "validation_failed"
	DirectiveCommitResult        DirectiveKind = "commit_result"
	DirectiveCancelAck           DirectiveKind = "cancel_ack"
	DirectiveDeferred            DirectiveKind = "deferred"
	DirectiveInfo                DirectiveKind = "info"
	DirectiveSchemaViolation     DirectiveKind = "schema_violation"
	DirectiveProtocolViolation   DirectiveKind = "protocol_violation"
	DirectiveSystemError         DirectiveKind = "system_error"
)

// Alternative suggests how the user can amend a failed request.
type Alternative string

const (
	AlternativeNone          Alternative = ""
	AlternativeUnpaidLeave   Alternative = "unpaid_leave_suggested"
	AlternativeShorteneDates Alternative = "shorten_dates"
)

// Directive is the engine's locale-agnostic answer to one inbound turn.
// The caller renders it via a Localizer; the engine never produces
// user-facing strings.
type Directive struct {
	Kind DirectiveKind `json:"kind"`

	// ActionKind of the flow this directive concerns, when any.
	ActionKind ActionKind `json:"action_kind,omitempty"`

	// MissingField carries the next field to ask for (ask_for_slot).
	MissingField string `json:"missing_field,omitempty"`

	// Frame snapshots the slot values being confirmed
	// (present_confirmation, commit_result).
	Frame *SlotFrame `json:"frame,omitempty"`

	// Validation carries balance and conflict detail
	// (present_confirmation, validation_failed).
	Validation *ValidationOutcome `json:"validation,omitempty"`

	// Alternative suggests an amendment path (validation_failed).
	Alternative Alternative `json:"alternative,omitempty"`

	// Commit carries the executor result (commit_result on success, and
	// on duplicate replay).
	Commit *CommitResult `json:"commit,omitempty"`

	// Success distinguishes commit success from a retryable executor
	// failure (commit_result).
	Success bool `json:"success,omitempty"`

	// Replayed marks a commit_result answered from the dedup record
	// rather than a fresh executor call.
	Replayed bool `json:"replayed,omitempty"`

	// FailureReason classifies a failed commit or system error.
	FailureReason string `json:"failure_reason,omitempty"`

	// DeferredIntent is the unrelated intent rejected while a flow was
	// pending (deferred).
	DeferredIntent string `json:"deferred_intent,omitempty"`

	// DroppedFields lists unknown slots discarded on merge
	// (schema_violation diagnostics; also attached to other kinds).
	DroppedFields []string `json:"dropped_fields,omitempty"`

	// Info carries read-only query payloads such as leave balances
	// (info).
	Info map[string]any `json:"info,omitempty"`
}

// AskForSlot prompts for the next missing required field.
func AskForSlot(kind ActionKind, field string) Directive {
	return Directive{Kind: DirectiveAskForSlot, ActionKind: kind, MissingField: field}
}

// PresentConfirmation asks the user to confirm a complete, validated
// frame. Completeness alone never authorizes a commit.
func PresentConfirmation(frame *SlotFrame, outcome *ValidationOutcome) Directive {
	return Directive{
		Kind:       DirectivePresentConfirmation,
		ActionKind: frame.Kind,
		Frame:      frame.Clone(),
		Validation: outcome,
	}
}

// ValidationFailed reports an insufficient balance without discarding the
// frame, so the user can amend instead of restarting.
func ValidationFailed(frame *SlotFrame, outcome *ValidationOutcome, alt Alternative) Directive {
	return Directive{
		Kind:        DirectiveValidationFailed,
		ActionKind:  frame.Kind,
		Frame:       frame.Clone(),
		Validation:  outcome,
		Alternative: alt,
	}
}

// Committed reports a successful executor write.
func Committed(frame *SlotFrame, result CommitResult) Directive {
	return Directive{
		Kind:       DirectiveCommitResult,
		ActionKind: frame.Kind,
		Frame:      frame.Clone(),
		Commit:     &result,
		Success:    true,
	}
}

// CommitFailed reports a failed executor write; the flow stays awaiting
// confirmation so a retry is legal.
func CommitFailed(kind ActionKind, reason string) Directive {
	return Directive{Kind: DirectiveCommitResult, ActionKind: kind, FailureReason: reason}
}

// CancelAck acknowledges a cancellation.
func CancelAck(kind ActionKind) Directive {
	return Directive{Kind: DirectiveCancelAck, ActionKind: kind}
}

// Deferred rejects an unrelated intent into a side channel while a flow
// is pending, leaving the flow untouched.
func Deferred(kind ActionKind, intent string) Directive {
	return Directive{Kind: DirectiveDeferred, ActionKind: kind, DeferredIntent: intent}
}

// Info answers a read-only query that never opens a flow.
func Info(payload map[string]any) Directive {
	return Directive{Kind: DirectiveInfo, Info: payload}
}

// SchemaViolation asks the caller to correct malformed or unknown slots.
func SchemaViolation(kind ActionKind, reason string, dropped []string) Directive {
	return Directive{
		Kind:          DirectiveSchemaViolation,
		ActionKind:    kind,
		FailureReason: reason,
		DroppedFields: dropped,
	}
}

// ProtocolViolation flags a reserved intent arriving in the wrong state,
// e.g. confirm with no pending flow.
func ProtocolViolation(intent string) Directive {
	return Directive{Kind: DirectiveProtocolViolation, DeferredIntent: intent}
}

// SystemError reports a backend timeout or outage. Session state is left
// unchanged so resending the same input is safe.
func SystemError(reason string) Directive {
	return Directive{Kind: DirectiveSystemError, FailureReason: reason}
}
