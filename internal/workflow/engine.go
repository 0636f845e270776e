// Package workflow implements the action workflow and confirmation
// engine: the state machine that drives a pending HR action from intake
// through validation and confirmation to commit or cancellation.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/peoplehub/hrflow/internal/logging"
	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/peoplehub/hrflow/pkg/ports"
	"github.com/peoplehub/hrflow/pkg/session"
)

// IntentSlotFill marks a turn that only supplies values for the active
// flow without naming a new intent.
const IntentSlotFill = "slot_fill"

// IntentLeaveBalance is the read-only balance query. It never opens a
// flow and is answered directly from the balance reader.
const IntentLeaveBalance = "leave_balance"

// IntentPayslip is the read-only payslip query.
const IntentPayslip = "payslip"

// IntentTicketStatus is the read-only support-ticket status query.
const IntentTicketStatus = "ticket_status"

// DefaultBackendTimeout bounds gateway and executor calls.
const DefaultBackendTimeout = 5 * time.Second

// BalanceReader is an optional read-side dependency for answering
// balance queries outside any flow.
type BalanceReader interface {
	LeaveBalances(ctx context.Context, actorID string) (map[string]int, error)
}

// PayslipReader is an optional read-side dependency for answering
// payslip queries outside any flow.
type PayslipReader interface {
	Payslip(ctx context.Context, actorID string) (domain.Payslip, error)
}

// TicketReader is an optional read-side dependency for answering
// support-ticket status queries outside any flow.
type TicketReader interface {
	TicketStatus(ctx context.Context, actorID, ticketID string) (domain.TicketInfo, error)
}

// Engine coordinates the multi-turn action protocol. All transitions for
// one conversation run under that conversation's exclusive lock; the
// engine itself keeps no per-conversation state outside the store.
type Engine struct {
	sessions *session.Manager
	gateway  ports.ValidationGateway
	executor ports.ActionExecutor
	balances BalanceReader
	payslips PayslipReader
	tickets  TicketReader
	dedup    *Deduplicator

	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	clock       func() time.Time
	timeout     time.Duration
	dedupWindow time.Duration
}

// Option configures the Engine.
type Option func(*Engine)

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source (tests).
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// WithDedupWindow overrides the duplicate-commit window.
func WithDedupWindow(window time.Duration) Option {
	return func(e *Engine) { e.dedupWindow = window }
}

// WithBackendTimeout bounds gateway and executor calls.
func WithBackendTimeout(timeout time.Duration) Option {
	return func(e *Engine) { e.timeout = timeout }
}

// WithBalanceReader enables direct answers to balance queries.
func WithBalanceReader(reader BalanceReader) Option {
	return func(e *Engine) { e.balances = reader }
}

// WithPayslipReader enables direct answers to payslip queries.
func WithPayslipReader(reader PayslipReader) Option {
	return func(e *Engine) { e.payslips = reader }
}

// WithTicketReader enables direct answers to ticket-status queries.
func WithTicketReader(reader TicketReader) Option {
	return func(e *Engine) { e.tickets = reader }
}

// NewEngine creates the workflow engine.
func NewEngine(sessions *session.Manager, gateway ports.ValidationGateway, executor ports.ActionExecutor, opts ...Option) *Engine {
	e := &Engine{
		sessions:    sessions,
		gateway:     gateway,
		executor:    executor,
		logger:      logging.NewNop(),
		clock:       time.Now,
		timeout:     DefaultBackendTimeout,
		dedupWindow: DefaultDedupWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.dedup = NewDeduplicator(e.dedupWindow, e.clock)
	return e
}

// Handle processes one inbound (intent, slots) pair for a conversation
// and returns the directive the caller should render. It is fully
// synchronous; concurrent calls for the same conversation serialize on
// the session lock.
func (e *Engine) Handle(ctx context.Context, conversationID, intent string, slots map[string]any, utterance string) (domain.Directive, error) {
	started := e.clock()
	var directive domain.Directive

	err := e.sessions.WithLock(ctx, conversationID, func(ctx context.Context) error {
		state, err := e.loadOrCreate(ctx, conversationID)
		if err != nil {
			return err
		}

		var save bool
		directive, save, err = e.transition(ctx, state, intent, slots)
		if err != nil {
			return err
		}
		if save {
			state.LastActivity = e.clock().UTC()
			if err := e.sessions.Store().Save(ctx, conversationID, state); err != nil {
				return fmt.Errorf("failed to persist session: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Directive{}, err
	}

	e.emitTurn(ctx, conversationID, intent, directive, e.clock().Sub(started))
	e.logger.Debug("turn handled",
		"conversation_id", conversationID,
		"intent", intent,
		"directive", directive.Kind,
	)
	return directive, nil
}

// loadOrCreate fetches the session inside an already-held lock.
func (e *Engine) loadOrCreate(ctx context.Context, conversationID string) (*domain.SessionState, error) {
	state, err := e.sessions.Store().Load(ctx, conversationID)
	if err == nil {
		return state, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	state = domain.NewSessionState(conversationID, e.clock().UTC())
	// A conversation belongs to one employee; the conversation identity
	// doubles as the actor until SetIdentity binds an explicit one.
	state.ActorID = conversationID
	return state, nil
}

// SetIdentity binds the acting employee and preferred locale to a
// conversation. Empty arguments leave the current values untouched.
func (e *Engine) SetIdentity(ctx context.Context, conversationID, actorID, locale string) error {
	return e.sessions.WithLock(ctx, conversationID, func(ctx context.Context) error {
		state, err := e.loadOrCreate(ctx, conversationID)
		if err != nil {
			return err
		}
		if actorID != "" {
			state.ActorID = actorID
		}
		if locale != "" {
			state.Locale = locale
		}
		state.LastActivity = e.clock().UTC()
		if err := e.sessions.Store().Save(ctx, conversationID, state); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
		return nil
	})
}

// Sessions exposes the session manager for inspection and lifecycle
// callers (HTTP and MCP adapters, idle sweeps).
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// transition applies the protocol to one inbound turn. The boolean result
// says whether the mutated state should be persisted; system errors leave
// the state untouched so a caller retry is safe.
func (e *Engine) transition(ctx context.Context, state *domain.SessionState, intent string, rawSlots map[string]any) (domain.Directive, bool, error) {
	flow := state.ActiveFlow

	// Cancel is legal from any non-terminal state and always wins.
	if intent == domain.IntentCancel || (intent == domain.IntentDeny && flow != nil) {
		if flow == nil {
			return domain.ProtocolViolation(intent), true, nil
		}
		flow.Confirmation = domain.ConfirmationCancelled
		kind := flow.Kind
		state.ClearFlow()
		e.emitFlowClosed(ctx, state.ConversationID, kind, domain.ConfirmationCancelled)
		return domain.CancelAck(kind), true, nil
	}

	if intent == domain.IntentConfirm {
		return e.handleConfirm(ctx, state)
	}

	// Intent isolation: an unrelated intent never advances or overwrites
	// a pending flow. It is rejected into a side channel unchanged.
	if flow != nil {
		if kind, starts := domain.KindForIntent(intent); starts && kind != flow.Kind {
			return domain.Deferred(flow.Kind, intent), true, nil
		}
		if intent != string(flow.Kind) && intent != IntentSlotFill {
			return domain.Deferred(flow.Kind, intent), true, nil
		}
		return e.continueFlow(ctx, state, flow, rawSlots)
	}

	// No pending flow.
	if kind, starts := domain.KindForIntent(intent); starts {
		flow = domain.NewPendingFlow(kind, e.clock().UTC())
		state.ActiveFlow = flow
		e.emitFlowOpened(ctx, state.ConversationID, kind)
		return e.continueFlow(ctx, state, flow, rawSlots)
	}

	if intent == IntentLeaveBalance {
		return e.handleBalanceQuery(ctx, state)
	}

	if intent == IntentPayslip {
		return e.handlePayslipQuery(ctx, state)
	}

	if intent == IntentTicketStatus {
		return e.handleTicketQuery(ctx, state, rawSlots)
	}

	if intent == domain.IntentDeny || intent == IntentSlotFill {
		return domain.ProtocolViolation(intent), true, nil
	}

	// Greetings and other non-flow intents get a generic info directive;
	// the localizer turns it into a help message.
	return domain.Info(map[string]any{"intent": intent}), true, nil
}

// continueFlow merges slots into the active frame and advances the
// protocol: ask for the next slot, validate, or present confirmation.
func (e *Engine) continueFlow(ctx context.Context, state *domain.SessionState, flow *domain.PendingFlow, rawSlots map[string]any) (domain.Directive, bool, error) {
	decoded, err := decodeSlots(rawSlots)
	if err != nil {
		return domain.SchemaViolation(flow.Kind, err.Error(), nil), true, nil
	}

	valid, rejected := checkValues(flow.Kind, decoded)
	before := flow.Frame.Fingerprint()
	dropped := flow.Frame.Merge(valid)
	flow.LastActivity = e.clock().UTC()

	if flow.Frame.Fingerprint() != before {
		// The frame changed: any prior validation is stale and a prior
		// confirmation prompt no longer describes what would be
		// committed.
		flow.InvalidateValidation()
		flow.Confirmation = domain.ConfirmationNotRequested
	}

	if len(rejected) > 0 {
		return domain.SchemaViolation(flow.Kind, "rejected malformed slot values", append(rejected, dropped...)), true, nil
	}

	if !dateRangeValid(flow.Frame) {
		return domain.SchemaViolation(flow.Kind, "end_date before start_date", []string{"end_date"}), true, nil
	}

	if missing := flow.Frame.MissingFields(); len(missing) > 0 {
		d := domain.AskForSlot(flow.Kind, missing[0])
		d.DroppedFields = dropped
		return d, true, nil
	}

	if flow.Confirmation == domain.ConfirmationAwaiting && flow.Validation != nil {
		// Complete, validated, unchanged: re-present the same prompt.
		return domain.PresentConfirmation(flow.Frame, flow.Validation), true, nil
	}

	return e.validate(ctx, state, flow)
}

// validate runs the read-only checks on a complete frame. Confirmation is
// mandatory whenever the frame is complete, even when every field arrived
// in a single message.
func (e *Engine) validate(ctx context.Context, state *domain.SessionState, flow *domain.PendingFlow) (domain.Directive, bool, error) {
	checkCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outcome, err := e.gateway.Check(checkCtx, flow.Kind, flow.Frame, state.ActorID)
	if err != nil {
		e.logger.Warn("validation gateway failed",
			"conversation_id", state.ConversationID,
			"action_kind", flow.Kind,
			"err", err,
		)
		return domain.SystemError("validation unavailable"), false, nil
	}

	flow.Validation = outcome

	if !outcome.BalanceSufficient {
		// Keep the frame and stay before confirmation so the user can
		// amend the request (e.g. shorten the dates) without starting
		// over.
		flow.Confirmation = domain.ConfirmationNotRequested
		return domain.ValidationFailed(flow.Frame, outcome, domain.AlternativeUnpaidLeave), true, nil
	}

	// Conflicts are advisory: surface them on the confirmation prompt
	// but still proceed to awaiting confirmation.
	flow.Confirmation = domain.ConfirmationAwaiting
	return domain.PresentConfirmation(flow.Frame, outcome), true, nil
}

// handleConfirm commits an awaiting flow, replaying the recorded outcome
// for duplicate submissions.
func (e *Engine) handleConfirm(ctx context.Context, state *domain.SessionState) (domain.Directive, bool, error) {
	flow := state.ActiveFlow

	if flow == nil {
		// A confirm with no pending flow is usually a UI retry arriving
		// after the commit already cleared the flow. Re-confirm the same
		// outcome instead of asking the user to resubmit.
		if len(state.RecentCommits) > 0 {
			last := state.RecentCommits[len(state.RecentCommits)-1]
			if rec, dup := e.dedup.Check(state, last.Fingerprint); dup {
				return e.replay(ctx, state, rec), true, nil
			}
		}
		return domain.ProtocolViolation(domain.IntentConfirm), true, nil
	}

	if flow.Confirmation != domain.ConfirmationAwaiting {
		return domain.ProtocolViolation(domain.IntentConfirm), true, nil
	}

	fingerprint := flow.Frame.Fingerprint()
	if rec, dup := e.dedup.Check(state, fingerprint); dup {
		return e.replay(ctx, state, rec), true, nil
	}

	commitCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	started := e.clock()
	result, err := e.executor.Commit(commitCtx, flow.Kind, flow.Frame, state.ActorID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			// Backend unavailable: leave the flow awaiting so resending
			// the same confirm is a safe retry.
			return domain.SystemError("executor unavailable"), false, nil
		}
		// Execution failure: the flow stays awaiting, retry is legal.
		e.logger.Warn("commit failed",
			"conversation_id", state.ConversationID,
			"action_kind", flow.Kind,
			"err", err,
		)
		return domain.CommitFailed(flow.Kind, err.Error()), true, nil
	}

	flow.Confirmation = domain.ConfirmationConfirmed
	directive := domain.Committed(flow.Frame, result)
	state.RecordCommit(domain.CommitRecord{
		Fingerprint: fingerprint,
		Kind:        flow.Kind,
		Frame:       flow.Frame.Clone(),
		Result:      result,
		CommittedAt: e.clock().UTC(),
	})
	kind := flow.Kind
	state.ClearFlow()

	e.emitCommit(ctx, state.ConversationID, kind, result.ID, e.clock().Sub(started), false)
	e.emitFlowClosed(ctx, state.ConversationID, kind, domain.ConfirmationConfirmed)
	return directive, true, nil
}

// replay rebuilds the commit directive from a dedup record.
func (e *Engine) replay(ctx context.Context, state *domain.SessionState, rec domain.CommitRecord) domain.Directive {
	// The duplicate also resolves any still-pending flow for the same
	// fingerprint.
	if state.ActiveFlow != nil && state.ActiveFlow.Frame.Fingerprint() == rec.Fingerprint {
		state.ClearFlow()
	}

	d := domain.Committed(rec.Frame, rec.Result)
	d.Replayed = true
	e.emitDuplicate(ctx, state.ConversationID, rec.Kind, rec.Result.ID)
	return d
}

// handleBalanceQuery answers the read-only balance intent without
// opening a flow.
func (e *Engine) handleBalanceQuery(ctx context.Context, state *domain.SessionState) (domain.Directive, bool, error) {
	if e.balances == nil {
		return domain.Info(map[string]any{"intent": IntentLeaveBalance}), true, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	balances, err := e.balances.LeaveBalances(queryCtx, state.ActorID)
	if err != nil {
		return domain.SystemError("balance lookup unavailable"), false, nil
	}

	payload := map[string]any{"intent": IntentLeaveBalance, "balances": balances}
	return domain.Info(payload), true, nil
}

// handlePayslipQuery answers the read-only payslip intent without
// opening a flow.
func (e *Engine) handlePayslipQuery(ctx context.Context, state *domain.SessionState) (domain.Directive, bool, error) {
	if e.payslips == nil {
		return domain.Info(map[string]any{"intent": IntentPayslip}), true, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	slip, err := e.payslips.Payslip(queryCtx, state.ActorID)
	if err != nil {
		if errors.Is(err, domain.ErrPayslipNotFound) {
			return domain.Info(map[string]any{"intent": IntentPayslip}), true, nil
		}
		return domain.SystemError("payslip lookup unavailable"), false, nil
	}

	payload := map[string]any{
		"intent":  IntentPayslip,
		"period":  slip.Period,
		"net":     slip.Net,
		"payslip": slip.Breakdown,
	}
	return domain.Info(payload), true, nil
}

// handleTicketQuery answers the read-only ticket-status intent. A query
// without a ticket number prompts for one instead of opening a flow.
func (e *Engine) handleTicketQuery(ctx context.Context, state *domain.SessionState, rawSlots map[string]any) (domain.Directive, bool, error) {
	ticketID, _ := rawSlots["ticket_id"].(string)
	if e.tickets == nil || ticketID == "" {
		return domain.Info(map[string]any{"intent": IntentTicketStatus}), true, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	info, err := e.tickets.TicketStatus(queryCtx, state.ActorID, ticketID)
	if err != nil {
		if errors.Is(err, domain.ErrTicketNotFound) {
			return domain.Info(map[string]any{"intent": IntentTicketStatus, "ticket_id": ticketID}), true, nil
		}
		return domain.SystemError("ticket lookup unavailable"), false, nil
	}

	payload := map[string]any{
		"intent":    IntentTicketStatus,
		"ticket_id": info.ID,
		"ticket":    info,
	}
	return domain.Info(payload), true, nil
}

func (e *Engine) emitTurn(ctx context.Context, conversationID, intent string, d domain.Directive, dur time.Duration) {
	if e.hooks.OnTurn == nil {
		return
	}
	e.hooks.OnTurn(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{Timestamp: e.clock(), Type: domain.EventTurn, ConversationID: conversationID},
		Intent:    intent,
		Directive: d.Kind,
		Duration:  dur,
	})
}

func (e *Engine) emitFlowOpened(ctx context.Context, conversationID string, kind domain.ActionKind) {
	if e.hooks.OnFlowOpened == nil {
		return
	}
	e.hooks.OnFlowOpened(ctx, &domain.FlowEvent{
		EventBase:  domain.EventBase{Timestamp: e.clock(), Type: domain.EventFlowOpened, ConversationID: conversationID},
		ActionKind: kind,
	})
}

func (e *Engine) emitFlowClosed(ctx context.Context, conversationID string, kind domain.ActionKind, outcome domain.ConfirmationState) {
	if e.hooks.OnFlowClosed == nil {
		return
	}
	e.hooks.OnFlowClosed(ctx, &domain.FlowEvent{
		EventBase:  domain.EventBase{Timestamp: e.clock(), Type: domain.EventFlowClosed, ConversationID: conversationID},
		ActionKind: kind,
		Outcome:    outcome,
	})
}

func (e *Engine) emitCommit(ctx context.Context, conversationID string, kind domain.ActionKind, requestID string, dur time.Duration, replayed bool) {
	if e.hooks.OnCommit == nil {
		return
	}
	e.hooks.OnCommit(ctx, &domain.CommitEvent{
		EventBase:  domain.EventBase{Timestamp: e.clock(), Type: domain.EventCommit, ConversationID: conversationID},
		ActionKind: kind,
		RequestID:  requestID,
		Duration:   dur,
		Replayed:   replayed,
	})
}

func (e *Engine) emitDuplicate(ctx context.Context, conversationID string, kind domain.ActionKind, requestID string) {
	if e.hooks.OnDuplicate == nil {
		return
	}
	e.hooks.OnDuplicate(ctx, &domain.CommitEvent{
		EventBase:  domain.EventBase{Timestamp: e.clock(), Type: domain.EventDuplicate, ConversationID: conversationID},
		ActionKind: kind,
		RequestID:  requestID,
		Replayed:   true,
	})
}
