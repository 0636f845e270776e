package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplehub/hrflow/internal/workflow"
	"github.com/peoplehub/hrflow/pkg/domain"
)

func classify(t *testing.T, utterance string) (string, map[string]any) {
	t.Helper()
	c := NewClassifier()
	out, err := c.Classify(t.Context(), utterance, "en")
	require.NoError(t, err)
	return out.Intent, out.Slots
}

func TestDetectLeaveRequest(t *testing.T) {
	intent, slots := classify(t, "I want leave from 2026-09-01 to 2026-09-03, annual please")
	assert.Equal(t, string(domain.ActionLeaveRequest), intent)
	assert.Equal(t, "2026-09-01", slots["start_date"])
	assert.Equal(t, "2026-09-03", slots["end_date"])
	assert.Equal(t, "annual", slots["leave_type"])
}

func TestDetectLeaveRequestArabic(t *testing.T) {
	intent, slots := classify(t, "اريد اجازة سنوية من 2026-09-01")
	assert.Equal(t, string(domain.ActionLeaveRequest), intent)
	assert.Equal(t, "annual", slots["leave_type"])
	assert.Equal(t, "2026-09-01", slots["start_date"])
}

func TestDetectExcuse(t *testing.T) {
	intent, slots := classify(t, "I arrived late on 2026-09-02 at 9:15 because of traffic")
	assert.Equal(t, string(domain.ActionExcuseRequest), intent)
	assert.Equal(t, "late_arrival", slots["excuse_type"])
	assert.Equal(t, "2026-09-02", slots["date"])
	assert.Equal(t, "09:15", slots["time"])
}

func TestCancelBeatsEverything(t *testing.T) {
	intent, _ := classify(t, "actually cancel the leave request")
	assert.Equal(t, domain.IntentCancel, intent)
}

func TestCancelArabic(t *testing.T) {
	intent, _ := classify(t, "إلغاء")
	assert.Equal(t, domain.IntentCancel, intent)
}

func TestConfirm(t *testing.T) {
	intent, _ := classify(t, "yes")
	assert.Equal(t, domain.IntentConfirm, intent)

	intent, _ = classify(t, "نعم")
	assert.Equal(t, domain.IntentConfirm, intent)
}

func TestBalanceQuery(t *testing.T) {
	intent, _ := classify(t, "what is my leave balance?")
	assert.Equal(t, workflow.IntentLeaveBalance, intent)
}

func TestBareSlotsBecomeSlotFill(t *testing.T) {
	intent, slots := classify(t, "2026-09-05")
	assert.Equal(t, workflow.IntentSlotFill, intent)
	assert.Equal(t, "2026-09-05", slots["start_date"])
}

func TestUnknownIsGeneral(t *testing.T) {
	intent, slots := classify(t, "what's the weather like")
	assert.Equal(t, "general", intent)
	assert.Nil(t, slots)
}

func TestPayslipQuery(t *testing.T) {
	intent, _ := classify(t, "can I see my payslip")
	assert.Equal(t, workflow.IntentPayslip, intent)

	intent, _ = classify(t, "ابغى كشف الراتب")
	assert.Equal(t, workflow.IntentPayslip, intent)
}

func TestSupportTicket(t *testing.T) {
	intent, slots := classify(t, "I want to open a ticket, my vpn is not working")
	assert.Equal(t, string(domain.ActionSupportTicket), intent)
	assert.Equal(t, "it", slots["category"])
}

func TestSupportTicketArabic(t *testing.T) {
	intent, _ := classify(t, "عندي شكوى على المرافق")
	assert.Equal(t, string(domain.ActionSupportTicket), intent)
}

func TestTicketNumberMeansStatusQuery(t *testing.T) {
	intent, slots := classify(t, "any update on TK-0001?")
	assert.Equal(t, workflow.IntentTicketStatus, intent)
	assert.Equal(t, "TK-0001", slots["ticket_id"])
}

func TestTicketStatusWithoutNumber(t *testing.T) {
	intent, _ := classify(t, "what is the status of my ticket")
	assert.Equal(t, workflow.IntentTicketStatus, intent)
}

func TestBareCategoryIsSlotFill(t *testing.T) {
	intent, slots := classify(t, "facilities")
	assert.Equal(t, workflow.IntentSlotFill, intent)
	assert.Equal(t, "facilities", slots["category"])
}

// Tied keyword scores must resolve identically on every run, not by
// map iteration order.
func TestTieBreakIsDeterministic(t *testing.T) {
	for range 50 {
		intent, _ := classify(t, "status of my ticket")
		assert.Equal(t, workflow.IntentTicketStatus, intent)
	}
}
