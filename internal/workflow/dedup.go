package workflow

import (
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// DefaultDedupWindow is the trailing window inside which an identical
// commit is treated as a resubmission. Configurable because the exact
// duration is a policy decision, not a protocol one.
const DefaultDedupWindow = 5 * time.Minute

// Deduplicator detects resubmissions of semantically identical commits.
// On a hit the engine replays the previously recorded outcome instead of
// writing a second record or asking the user to resubmit.
type Deduplicator struct {
	window time.Duration
	clock  func() time.Time
}

// NewDeduplicator creates a deduplicator with the given trailing window.
// A zero window means the window never expires.
func NewDeduplicator(window time.Duration, clock func() time.Time) *Deduplicator {
	if clock == nil {
		clock = time.Now
	}
	return &Deduplicator{window: window, clock: clock}
}

// Check reports whether fingerprint matches a commit recorded within the
// window, returning the record to replay.
func (d *Deduplicator) Check(state *domain.SessionState, fingerprint string) (domain.CommitRecord, bool) {
	rec, ok := state.RecentCommit(fingerprint)
	if !ok {
		return domain.CommitRecord{}, false
	}
	if d.window > 0 && d.clock().Sub(rec.CommittedAt) > d.window {
		return domain.CommitRecord{}, false
	}
	return rec, true
}
