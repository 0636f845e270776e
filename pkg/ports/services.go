package ports

import (
	"context"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// Classification is the classifier's reading of one utterance. Slots are
// untrusted free-form values; the engine validates types before merging.
type Classification struct {
	Intent string
	Slots  map[string]any
}

// IntentClassifier turns a raw utterance into an intent and extracted
// slots. The engine treats the output as untrusted input.
type IntentClassifier interface {
	Classify(ctx context.Context, utterance, locale string) (Classification, error)
}

// ValidationGateway runs the read-only checks (balance sufficiency, team
// calendar conflicts) against a complete slot frame. It must be pure: the
// engine never treats a validation call as a side-effecting step.
type ValidationGateway interface {
	Check(ctx context.Context, kind domain.ActionKind, frame *domain.SlotFrame, actorID string) (*domain.ValidationOutcome, error)
}

// ActionExecutor performs the committing write. Retry tolerance is
// provided by the engine's duplicate suppression, not by the executor.
type ActionExecutor interface {
	Commit(ctx context.Context, kind domain.ActionKind, frame *domain.SlotFrame, actorID string) (domain.CommitResult, error)
}

// Localizer renders a locale-agnostic directive into user-facing text.
type Localizer interface {
	Render(directive domain.Directive, locale string) string
}
