package hrflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/peoplehub/hrflow/internal/intent"
	"github.com/peoplehub/hrflow/internal/localize"
	"github.com/peoplehub/hrflow/internal/logging"
	"github.com/peoplehub/hrflow/internal/workflow"
	"github.com/peoplehub/hrflow/pkg/adapters/memory"
	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/peoplehub/hrflow/pkg/ports"
	"github.com/peoplehub/hrflow/pkg/session"
)

// Version is the library version reported by the binaries.
var Version = "0.3.0"

// Service is the high-level entry point. It bundles the workflow engine
// with a classifier and a localizer so adapters deal in plain text, and
// exposes the structured directive for callers that render themselves.
type Service struct {
	engine     *workflow.Engine
	sessions   *session.Manager
	classifier ports.IntentClassifier
	localizer  ports.Localizer

	store         ports.SessionStore
	locker        ports.DistributedLocker
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	defaultLocale string
	engineOpts    []workflow.Option
	sessionOpts   []session.Option
}

// Option configures the Service.
type Option func(*Service)

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(store ports.SessionStore) Option {
	return func(s *Service) { s.store = store }
}

// WithDistributedLocker adds cross-process conversation locking.
func WithDistributedLocker(locker ports.DistributedLocker) Option {
	return func(s *Service) { s.locker = locker }
}

// WithClassifier replaces the built-in keyword classifier.
func WithClassifier(c ports.IntentClassifier) Option {
	return func(s *Service) { s.classifier = c }
}

// WithLocalizer replaces the built-in catalog localizer.
func WithLocalizer(l ports.Localizer) Option {
	return func(s *Service) { s.localizer = l }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Service) { s.hooks = hooks }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithDefaultLocale sets the locale used when a conversation never
// states one.
func WithDefaultLocale(locale string) Option {
	return func(s *Service) { s.defaultLocale = locale }
}

// WithDedupWindow overrides the duplicate-commit suppression window.
func WithDedupWindow(window time.Duration) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, workflow.WithDedupWindow(window))
	}
}

// WithBackendTimeout bounds validation and executor calls.
func WithBackendTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, workflow.WithBackendTimeout(timeout))
	}
}

// WithBalanceReader enables direct balance-query answers.
func WithBalanceReader(reader workflow.BalanceReader) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, workflow.WithBalanceReader(reader))
	}
}

// WithPayslipReader enables payslip-query answers.
func WithPayslipReader(reader workflow.PayslipReader) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, workflow.WithPayslipReader(reader))
	}
}

// WithTicketReader enables ticket-status answers.
func WithTicketReader(reader workflow.TicketReader) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, workflow.WithTicketReader(reader))
	}
}

// WithLockTTL overrides how long a conversation lock is held before it
// expires. Only meaningful together with WithDistributedLocker.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, session.WithLockTTL(ttl))
	}
}

// New wires a Service around the required backend ports. Defaults: an
// in-memory session store, the keyword classifier, and the embedded
// catalog localizer.
func New(gateway ports.ValidationGateway, executor ports.ActionExecutor, opts ...Option) (*Service, error) {
	s := &Service{defaultLocale: localize.DefaultLocale}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	if s.store == nil {
		s.store = memory.NewStore()
	}
	if s.classifier == nil {
		s.classifier = intent.NewClassifier()
	}
	if s.localizer == nil {
		renderer, err := localize.New()
		if err != nil {
			return nil, fmt.Errorf("failed to load localization catalogs: %w", err)
		}
		s.localizer = renderer
	}

	sessionOpts := []session.Option{session.WithLogger(s.logger)}
	if s.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(s.locker))
	}
	sessionOpts = append(sessionOpts, s.sessionOpts...)
	s.sessions = session.NewManager(s.store, sessionOpts...)

	engineOpts := append([]workflow.Option{
		workflow.WithHooks(s.hooks),
		workflow.WithLogger(s.logger),
	}, s.engineOpts...)
	s.engine = workflow.NewEngine(s.sessions, gateway, executor, engineOpts...)

	return s, nil
}

// Reply is one rendered answer to an inbound message.
type Reply struct {
	ConversationID string           `json:"conversation_id"`
	Intent         string           `json:"intent"`
	Directive      domain.Directive `json:"directive"`
	Text           string           `json:"text"`
	Locale         string           `json:"locale"`
}

// MessageRequest is one inbound chat message. ActorID and Locale are
// optional; once given they stick to the conversation.
type MessageRequest struct {
	ConversationID string `json:"conversation_id"`
	ActorID        string `json:"actor_id,omitempty"`
	Locale         string `json:"locale,omitempty"`
	Text           string `json:"text"`
}

// Message classifies one utterance, runs it through the engine, and
// renders the directive in the conversation's locale.
func (s *Service) Message(ctx context.Context, req MessageRequest) (Reply, error) {
	if req.ConversationID == "" {
		return Reply{}, fmt.Errorf("conversation_id is required")
	}

	text, err := SanitizeInput(req.Text)
	if err != nil {
		return Reply{}, fmt.Errorf("input rejected: %w", err)
	}
	req.Text = text

	if req.ActorID != "" || req.Locale != "" {
		if err := s.engine.SetIdentity(ctx, req.ConversationID, req.ActorID, req.Locale); err != nil {
			return Reply{}, err
		}
	}

	locale, err := s.resolveLocale(ctx, req.ConversationID, req.Locale)
	if err != nil {
		return Reply{}, err
	}

	cls, err := s.classifier.Classify(ctx, req.Text, locale)
	if err != nil {
		return Reply{}, fmt.Errorf("classification failed: %w", err)
	}
	cls = s.fillFreeTextSlot(ctx, req, cls)

	directive, err := s.engine.Handle(ctx, req.ConversationID, cls.Intent, cls.Slots, req.Text)
	if err != nil {
		return Reply{}, err
	}

	return Reply{
		ConversationID: req.ConversationID,
		Intent:         cls.Intent,
		Directive:      directive,
		Text:           s.localizer.Render(directive, locale),
		Locale:         locale,
	}, nil
}

// Dispatch feeds a pre-classified (intent, slots) pair to the engine,
// for callers that run their own NLU.
func (s *Service) Dispatch(ctx context.Context, conversationID, intentName string, slots map[string]any) (domain.Directive, error) {
	return s.engine.Handle(ctx, conversationID, intentName, slots, "")
}

// Cancel abandons the conversation's pending flow, if any.
func (s *Service) Cancel(ctx context.Context, conversationID string) (domain.Directive, error) {
	return s.engine.Handle(ctx, conversationID, domain.IntentCancel, nil, "")
}

// Render localizes a directive without running a turn.
func (s *Service) Render(directive domain.Directive, locale string) string {
	if locale == "" {
		locale = s.defaultLocale
	}
	return s.localizer.Render(directive, locale)
}

// Inspect returns the conversation's session record.
func (s *Service) Inspect(ctx context.Context, conversationID string) (*domain.SessionState, error) {
	return s.sessions.Load(ctx, conversationID)
}

// End deletes the conversation's session record.
func (s *Service) End(ctx context.Context, conversationID string) error {
	return s.sessions.Delete(ctx, conversationID)
}

// Conversations lists known conversation IDs.
func (s *Service) Conversations(ctx context.Context) ([]string, error) {
	return s.sessions.List(ctx)
}

// SweepIdle evicts conversations idle longer than maxAge and returns
// the evicted IDs.
func (s *Service) SweepIdle(ctx context.Context, maxAge time.Duration) ([]string, error) {
	return s.sessions.EvictIdle(ctx, maxAge)
}

// Engine exposes the underlying workflow engine.
func (s *Service) Engine() *workflow.Engine {
	return s.engine
}

// fillFreeTextSlot routes an unclassified utterance into the flow's
// next missing field when that field is free text, such as the reason
// of an excuse. The stateless classifier cannot know the flow context,
// so "school run" alone would otherwise go nowhere.
func (s *Service) fillFreeTextSlot(ctx context.Context, req MessageRequest, cls ports.Classification) ports.Classification {
	if cls.Intent != "general" || len(cls.Slots) > 0 {
		return cls
	}
	state, err := s.sessions.Load(ctx, req.ConversationID)
	if err != nil || state.ActiveFlow == nil {
		return cls
	}
	missing := state.ActiveFlow.Frame.MissingFields()
	if len(missing) == 0 {
		return cls
	}
	schema, ok := domain.SchemaFor(state.ActiveFlow.Kind)
	if !ok {
		return cls
	}
	spec, ok := schema.Field(missing[0])
	if !ok || spec.Kind != domain.FieldString || len(spec.Enum) > 0 {
		return cls
	}
	return ports.Classification{
		Intent: workflow.IntentSlotFill,
		Slots:  map[string]any{spec.Name: strings.TrimSpace(req.Text)},
	}
}

// resolveLocale picks the rendering locale: the request's, then the
// session's, then the default.
func (s *Service) resolveLocale(ctx context.Context, conversationID, requested string) (string, error) {
	if requested != "" {
		return requested, nil
	}
	state, err := s.sessions.Load(ctx, conversationID)
	if err == nil && state.Locale != "" {
		return state.Locale, nil
	}
	return s.defaultLocale, nil
}
