package middleware

import (
	"context"
	"regexp"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/peoplehub/hrflow/pkg/ports"
)

type piiMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks committed slot
// values whose field names match the patterns (e.g. "reason"). Only
// RecentCommits are masked: duplicate replay needs the request ID and
// status, not the free text. The active flow is stored verbatim, since
// its values must survive a reload to be committed.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, conversationID string, state *domain.SessionState) error {
	if len(state.RecentCommits) == 0 {
		return m.next.Save(ctx, conversationID, state)
	}

	// Clone before masking so the engine's in-memory state is untouched.
	cloned := *state
	cloned.RecentCommits = make([]domain.CommitRecord, len(state.RecentCommits))
	for i, rec := range state.RecentCommits {
		masked := rec
		if rec.Frame != nil {
			masked.Frame = rec.Frame.Clone()
			maskFrame(masked.Frame, m.patterns)
		}
		cloned.RecentCommits[i] = masked
	}
	return m.next.Save(ctx, conversationID, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, conversationID string) (*domain.SessionState, error) {
	return m.next.Load(ctx, conversationID)
}

func (m *piiMiddleware) Delete(ctx context.Context, conversationID string) error {
	return m.next.Delete(ctx, conversationID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) EvictIdle(ctx context.Context, maxAge time.Duration) ([]string, error) {
	return m.next.EvictIdle(ctx, maxAge)
}

func maskFrame(frame *domain.SlotFrame, patterns []*regexp.Regexp) {
	for field := range frame.Values {
		for _, p := range patterns {
			if p.MatchString(field) {
				frame.Values[field] = "***"
				break
			}
		}
	}
}
