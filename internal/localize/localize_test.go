package localize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplehub/hrflow/pkg/domain"
)

func TestNewLoadsAllCatalogs(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, []string{"ar", "en"}, r.Locales())
}

func TestAskForSlotUsesFieldPrompt(t *testing.T) {
	r := MustNew()
	out := r.Render(domain.AskForSlot(domain.ActionLeaveRequest, "start_date"), "en")
	assert.Contains(t, out, "start date")
	assert.Contains(t, out, "YYYY-MM-DD")
}

func TestPresentConfirmationListsFrameAndConflicts(t *testing.T) {
	r := MustNew()
	frame := domain.NewSlotFrame(domain.ActionLeaveRequest)
	frame.Values["leave_type"] = "annual"
	frame.Values["start_date"] = "2026-09-01"
	frame.Values["end_date"] = "2026-09-03"

	d := domain.PresentConfirmation(frame, &domain.ValidationOutcome{
		BalanceSufficient: true,
		RequestedDays:     3,
		RemainingAfter:    18,
		Conflicts: []domain.Conflict{
			{EmployeeName: "Khalid Al-Rashid", StartDate: "2026-09-01", EndDate: "2026-09-01"},
		},
	})

	out := r.Render(d, "en")
	assert.Contains(t, out, "leave_type: annual")
	assert.Contains(t, out, "3 day(s)")
	assert.Contains(t, out, "leaving 18 day(s)")
	assert.Contains(t, out, "Khalid Al-Rashid")
	assert.Contains(t, out, `"yes"`)
}

func TestValidationFailedSuggestsUnpaid(t *testing.T) {
	r := MustNew()
	frame := domain.NewSlotFrame(domain.ActionLeaveRequest)
	d := domain.ValidationFailed(frame, &domain.ValidationOutcome{RequestedDays: 5}, domain.AlternativeUnpaidLeave)
	out := r.Render(d, "en")
	assert.Contains(t, out, "unpaid")
}

func TestCommitResultVariants(t *testing.T) {
	r := MustNew()
	frame := domain.NewSlotFrame(domain.ActionLeaveRequest)

	ok := domain.Committed(frame, domain.CommitResult{ID: "LR-0007", Status: domain.CommitPending})
	assert.Contains(t, r.Render(ok, "en"), "LR-0007")

	replay := ok
	replay.Replayed = true
	assert.Contains(t, r.Render(replay, "en"), "already submitted")

	failed := domain.CommitFailed(domain.ActionLeaveRequest, "backend unavailable")
	out := r.Render(failed, "en")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "try again")
}

func TestArabicCatalog(t *testing.T) {
	r := MustNew()
	out := r.Render(domain.CancelAck(domain.ActionLeaveRequest), "ar")
	assert.Contains(t, out, "تم إلغاء")
	assert.Contains(t, out, "طلب الإجازة")
}

func TestUnknownLocaleFallsBackToEnglish(t *testing.T) {
	r := MustNew()
	out := r.Render(domain.SystemError("timeout"), "fr")
	assert.Contains(t, out, "Nothing was changed")
}

func TestInfoBalances(t *testing.T) {
	r := MustNew()
	d := domain.Info(map[string]any{"balances": map[string]int{"annual": 21, "sick": 10}})
	out := r.Render(d, "en")
	assert.Contains(t, out, "annual 21")
	assert.Contains(t, out, "sick 10")
}

func TestInfoPayslip(t *testing.T) {
	r := MustNew()
	d := domain.Info(map[string]any{
		"intent":  "payslip",
		"period":  "2026-08",
		"net":     18000,
		"payslip": map[string]int{"basic_salary": 15000, "deductions": 1500},
	})
	out := r.Render(d, "en")
	assert.Contains(t, out, "2026-08")
	assert.Contains(t, out, "basic_salary 15000")
	assert.Contains(t, out, "18000")

	none := domain.Info(map[string]any{"intent": "payslip"})
	assert.Contains(t, r.Render(none, "en"), "could not find a payslip")
}

func TestInfoTicket(t *testing.T) {
	r := MustNew()
	d := domain.Info(map[string]any{
		"intent":    "ticket_status",
		"ticket_id": "TK-0001",
		"ticket": domain.TicketInfo{
			ID: "TK-0001", Category: "it",
			Status: domain.CommitPending, CreatedAt: "2026-08-01",
		},
	})
	out := r.Render(d, "en")
	assert.Contains(t, out, "TK-0001")
	assert.Contains(t, out, "it")
	assert.Contains(t, out, "pending")

	none := domain.Info(map[string]any{"intent": "ticket_status", "ticket_id": "TK-9999"})
	assert.Contains(t, r.Render(none, "en"), "TK-9999")

	prompt := domain.Info(map[string]any{"intent": "ticket_status"})
	assert.Contains(t, r.Render(prompt, "en"), "ticket number")
}

func TestSupportTicketActionName(t *testing.T) {
	r := MustNew()
	out := r.Render(domain.CancelAck(domain.ActionSupportTicket), "en")
	assert.Contains(t, out, "support ticket")

	out = r.Render(domain.AskForSlot(domain.ActionSupportTicket, "category"), "en")
	assert.Contains(t, out, "facilities")
}
