package domain

import "time"

// ConfirmationState tracks where a pending flow is in the
// validate-confirm-commit protocol.
type ConfirmationState string

const (
	ConfirmationNotRequested ConfirmationState = "not_requested"
	ConfirmationAwaiting     ConfirmationState = "awaiting"
	ConfirmationConfirmed    ConfirmationState = "confirmed"
	ConfirmationCancelled    ConfirmationState = "cancelled"
)

// PendingFlow is the unit of in-progress work. A conversation holds at
// most one at a time; a second action cannot begin until this one is
// cancelled or completed.
type PendingFlow struct {
	Kind         ActionKind         `json:"kind"`
	Frame        *SlotFrame         `json:"frame"`
	Validation   *ValidationOutcome `json:"validation,omitempty"`
	Confirmation ConfirmationState  `json:"confirmation"`
	CreatedAt    time.Time          `json:"created_at"`
	LastActivity time.Time          `json:"last_activity"`
}

// NewPendingFlow starts a flow with an empty frame.
func NewPendingFlow(kind ActionKind, now time.Time) *PendingFlow {
	return &PendingFlow{
		Kind:         kind,
		Frame:        NewSlotFrame(kind),
		Confirmation: ConfirmationNotRequested,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// InvalidateValidation drops a stale ValidationOutcome after the frame
// changed. Validation results are immutable once produced; a mutation
// requires recomputation.
func (p *PendingFlow) InvalidateValidation() {
	p.Validation = nil
}

// CommitRecord remembers one committed action so a duplicate confirm can
// replay the original outcome instead of writing twice.
type CommitRecord struct {
	Fingerprint string       `json:"fingerprint"`
	Kind        ActionKind   `json:"kind"`
	Frame       *SlotFrame   `json:"frame,omitempty"`
	Result      CommitResult `json:"result"`
	CommittedAt time.Time    `json:"committed_at"`
}

// maxRecentCommits bounds SessionState.RecentCommits.
const maxRecentCommits = 8

// SessionState is the per-conversation record. It is owned by the session
// store and mutated only through engine transitions executed under the
// conversation's lock.
type SessionState struct {
	ConversationID string         `json:"conversation_id"`
	ActorID        string         `json:"actor_id,omitempty"`
	Locale         string         `json:"locale,omitempty"`
	ActiveFlow     *PendingFlow   `json:"active_flow,omitempty"`
	RecentCommits  []CommitRecord `json:"recent_commits,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	LastActivity   time.Time      `json:"last_activity"`

	// Sealed carries the encrypted payload when a store middleware
	// encrypts sessions at rest. Empty for plaintext records.
	Sealed string `json:"sealed,omitempty"`
}

// NewSessionState creates a fresh session for a conversation identity.
func NewSessionState(conversationID string, now time.Time) *SessionState {
	return &SessionState{
		ConversationID: conversationID,
		CreatedAt:      now,
		LastActivity:   now,
	}
}

// RecordCommit appends a commit record, evicting the oldest beyond the
// bound.
func (s *SessionState) RecordCommit(rec CommitRecord) {
	s.RecentCommits = append(s.RecentCommits, rec)
	if len(s.RecentCommits) > maxRecentCommits {
		s.RecentCommits = s.RecentCommits[len(s.RecentCommits)-maxRecentCommits:]
	}
}

// RecentCommit finds the newest commit record matching a fingerprint.
func (s *SessionState) RecentCommit(fingerprint string) (CommitRecord, bool) {
	for i := len(s.RecentCommits) - 1; i >= 0; i-- {
		if s.RecentCommits[i].Fingerprint == fingerprint {
			return s.RecentCommits[i], true
		}
	}
	return CommitRecord{}, false
}

// ClearFlow drops the active flow, if any.
func (s *SessionState) ClearFlow() {
	s.ActiveFlow = nil
}
