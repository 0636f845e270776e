package tests

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/internal/hr"
	"github.com/peoplehub/hrflow/pkg/domain"
)

// Full-stack scenarios: classifier, engine, seeded HR backend, and
// localizer together, driven only through the public Message API.

func newService(t *testing.T) (*hrflow.Service, *hr.Service) {
	t.Helper()
	backend := hr.Seed()
	svc, err := hrflow.New(backend, backend, hrflow.WithBalanceReader(backend))
	require.NoError(t, err)
	return svc, backend
}

func say(t *testing.T, svc *hrflow.Service, conversationID, text string) hrflow.Reply {
	t.Helper()
	reply, err := svc.Message(t.Context(), hrflow.MessageRequest{
		ConversationID: conversationID,
		Text:           text,
	})
	require.NoError(t, err)
	return reply
}

func day(offset int) string {
	return time.Now().AddDate(0, 0, offset).Format("2006-01-02")
}

func TestInsufficientBalanceOffersUnpaidPath(t *testing.T) {
	svc, _ := newService(t)

	// Omar has 2 annual days; ask for 5.
	reply := say(t, svc, "EMP005", "I want annual leave from "+day(30)+" to "+day(34))
	require.Equal(t, domain.DirectiveValidationFailed, reply.Directive.Kind)
	assert.Equal(t, domain.AlternativeUnpaidLeave, reply.Directive.Alternative)

	// Confirm is not legal yet: validation failed, nothing was presented.
	reply = say(t, svc, "EMP005", "yes")
	assert.Equal(t, domain.DirectiveProtocolViolation, reply.Directive.Kind)

	// Amending to unpaid skips the balance check entirely.
	reply = say(t, svc, "EMP005", "make it unpaid leave")
	require.Equal(t, domain.DirectivePresentConfirmation, reply.Directive.Kind)

	reply = say(t, svc, "EMP005", "yes")
	require.Equal(t, domain.DirectiveCommitResult, reply.Directive.Kind)
	assert.True(t, reply.Directive.Success)
}

func TestTeamConflictIsAdvisory(t *testing.T) {
	svc, _ := newService(t)

	// Khalid (EMP002, Engineering) has an approved leave next Monday.
	// Ahmed (EMP001, Engineering) requests the same day.
	monday := nextMonday()
	reply := say(t, svc, "EMP001", "I want annual leave from "+monday+" to "+monday)
	require.Equal(t, domain.DirectivePresentConfirmation, reply.Directive.Kind)
	require.NotNil(t, reply.Directive.Validation)
	require.NotEmpty(t, reply.Directive.Validation.Conflicts)
	assert.Contains(t, reply.Text, "Khalid")

	// Advisory only: the commit still goes through.
	reply = say(t, svc, "EMP001", "yes")
	require.Equal(t, domain.DirectiveCommitResult, reply.Directive.Kind)
	assert.True(t, reply.Directive.Success)
}

func TestExcuseRequestEndToEnd(t *testing.T) {
	svc, backend := newService(t)

	reply := say(t, svc, "EMP003", "I arrived late on "+day(1)+" at 9:30 because of a school run")
	// excuse_type, date and time are extracted; reason must be asked for.
	require.Equal(t, domain.DirectiveAskForSlot, reply.Directive.Kind)
	assert.Equal(t, "reason", reply.Directive.MissingField)

	_ = say(t, svc, "EMP003", "school run")

	state, err := svc.Inspect(t.Context(), "EMP003")
	require.NoError(t, err)
	require.NotNil(t, state.ActiveFlow)
	require.True(t, state.ActiveFlow.Frame.Complete())

	reply = say(t, svc, "EMP003", "yes")
	require.Equal(t, domain.DirectiveCommitResult, reply.Directive.Kind)
	assert.Contains(t, reply.Directive.Commit.ID, "EX-")
	assert.Len(t, backend.Excuses(), 1)

	// The same excuse on the same day is rejected by the backend.
	reply = say(t, svc, "EMP003", "I arrived late on "+day(1)+" at 9:45 because of traffic")
	require.Equal(t, domain.DirectiveAskForSlot, reply.Directive.Kind)
	_ = say(t, svc, "EMP003", "traffic")
	reply = say(t, svc, "EMP003", "yes")
	require.Equal(t, domain.DirectiveCommitResult, reply.Directive.Kind)
	assert.False(t, reply.Directive.Success)
}

func TestUnrelatedIntentIsDeferredMidFlow(t *testing.T) {
	svc, _ := newService(t)

	_ = say(t, svc, "EMP004", "I want annual leave")

	reply := say(t, svc, "EMP004", "actually I arrived late today")
	require.Equal(t, domain.DirectiveDeferred, reply.Directive.Kind)
	assert.Equal(t, string(domain.ActionExcuseRequest), reply.Directive.DeferredIntent)

	// The pending leave flow is untouched.
	state, err := svc.Inspect(t.Context(), "EMP004")
	require.NoError(t, err)
	require.NotNil(t, state.ActiveFlow)
	assert.Equal(t, domain.ActionLeaveRequest, state.ActiveFlow.Kind)
}

// nextMonday mirrors the seeded team calendar.
func nextMonday() string {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	ahead := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return day.AddDate(0, 0, ahead).Format("2006-01-02")
}
