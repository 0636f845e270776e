package hr

import (
	"context"
	"testing"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaveFrame(t *testing.T, leaveType, start, end string) *domain.SlotFrame {
	t.Helper()
	f := domain.NewSlotFrame(domain.ActionLeaveRequest)
	f.Merge(map[string]string{"leave_type": leaveType, "start_date": start, "end_date": end})
	return f
}

func TestCheckLeaveBalance(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Department: "Engineering"}, map[string]int{"annual": 16, "sick": 5})
	ctx := context.Background()

	t.Run("sufficient", func(t *testing.T) {
		out, err := svc.Check(ctx, domain.ActionLeaveRequest, leaveFrame(t, "annual", "2026-02-10", "2026-02-11"), "EMP001")
		require.NoError(t, err)
		assert.True(t, out.BalanceSufficient)
		assert.Equal(t, 2, out.RequestedDays)
		assert.Equal(t, 14, out.RemainingAfter)
	})

	t.Run("insufficient", func(t *testing.T) {
		out, err := svc.Check(ctx, domain.ActionLeaveRequest, leaveFrame(t, "sick", "2026-02-02", "2026-02-08"), "EMP001")
		require.NoError(t, err)
		assert.False(t, out.BalanceSufficient)
		assert.Equal(t, 7, out.RequestedDays)
		assert.Equal(t, -2, out.RemainingAfter)
	})

	t.Run("unpaid skips balance", func(t *testing.T) {
		out, err := svc.Check(ctx, domain.ActionLeaveRequest, leaveFrame(t, "unpaid", "2026-02-02", "2026-02-28"), "EMP001")
		require.NoError(t, err)
		assert.True(t, out.BalanceSufficient)
	})

	t.Run("check is read-only", func(t *testing.T) {
		before, err := svc.LeaveBalances(ctx, "EMP001")
		require.NoError(t, err)
		_, err = svc.Check(ctx, domain.ActionLeaveRequest, leaveFrame(t, "annual", "2026-02-10", "2026-02-11"), "EMP001")
		require.NoError(t, err)
		after, err := svc.LeaveBalances(ctx, "EMP001")
		require.NoError(t, err)
		assert.Equal(t, before, after)
		assert.Empty(t, svc.Leaves())
	})
}

func TestCheckTeamConflicts(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Name: "Ahmed", Department: "Engineering"}, map[string]int{"annual": 20})
	svc.AddEmployee(Employee{ID: "EMP002", Name: "Khalid", Department: "Engineering"}, map[string]int{"annual": 20})
	svc.AddEmployee(Employee{ID: "EMP004", Name: "Fatima", Department: "HR"}, map[string]int{"annual": 20})

	svc.AddLeave(LeaveRecord{
		EmployeeID: "EMP002", LeaveType: "annual",
		StartDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		Status:    domain.CommitApproved,
	})
	svc.AddLeave(LeaveRecord{
		EmployeeID: "EMP004", LeaveType: "annual",
		StartDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 2, 12, 0, 0, 0, 0, time.UTC),
		Status:    domain.CommitApproved,
	})
	ctx := context.Background()

	out, err := svc.Check(ctx, domain.ActionLeaveRequest, leaveFrame(t, "annual", "2026-02-11", "2026-02-11"), "EMP001")
	require.NoError(t, err)
	require.Len(t, out.Conflicts, 1, "only same-department overlaps count")
	assert.Equal(t, "EMP002", out.Conflicts[0].EmployeeID)
	assert.Equal(t, "Khalid", out.Conflicts[0].EmployeeName)

	// Disjoint range: no conflicts.
	out, err = svc.Check(ctx, domain.ActionLeaveRequest, leaveFrame(t, "annual", "2026-02-20", "2026-02-21"), "EMP001")
	require.NoError(t, err)
	assert.Empty(t, out.Conflicts)
}

func TestCommitLeaveDeductsBalance(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Department: "Engineering"}, map[string]int{"annual": 16})
	ctx := context.Background()

	res, err := svc.Commit(ctx, domain.ActionLeaveRequest, leaveFrame(t, "annual", "2026-02-10", "2026-02-11"), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "LR-0001", res.ID)
	assert.Equal(t, domain.CommitPending, res.Status)

	balances, err := svc.LeaveBalances(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, 14, balances["annual"])
	assert.Len(t, svc.Leaves(), 1)
}

func TestCommitExcuseRejectsDuplicateDay(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Department: "Engineering"}, nil)
	ctx := context.Background()

	frame := domain.NewSlotFrame(domain.ActionExcuseRequest)
	frame.Merge(map[string]string{
		"excuse_type": "late_arrival",
		"date":        "2026-02-10",
		"time":        "09:30",
		"reason":      "traffic accident on the highway",
	})

	res, err := svc.Commit(ctx, domain.ActionExcuseRequest, frame, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "EX-0001", res.ID)

	_, err = svc.Commit(ctx, domain.ActionExcuseRequest, frame, "EMP001")
	assert.ErrorIs(t, err, domain.ErrDuplicateSubmission)
	assert.Len(t, svc.Excuses(), 1)
}

func TestCommitTicket(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Department: "Engineering"}, nil)
	ctx := context.Background()

	frame := domain.NewSlotFrame(domain.ActionSupportTicket)
	frame.Merge(map[string]string{
		"category":    "it",
		"description": "laptop will not boot",
	})

	out, err := svc.Check(ctx, domain.ActionSupportTicket, frame, "EMP001")
	require.NoError(t, err)
	assert.True(t, out.BalanceSufficient)

	res, err := svc.Commit(ctx, domain.ActionSupportTicket, frame, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "TK-0001", res.ID)
	assert.Equal(t, domain.CommitPending, res.Status)

	tickets := svc.Tickets()
	require.Len(t, tickets, 1)
	assert.Equal(t, "it", tickets[0].Category)
	assert.Equal(t, "laptop will not boot", tickets[0].Description)
}

func TestCommitTicketRequiresDescription(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Department: "Engineering"}, nil)

	frame := domain.NewSlotFrame(domain.ActionSupportTicket)
	frame.Merge(map[string]string{"category": "it", "description": "   "})

	_, err := svc.Commit(context.Background(), domain.ActionSupportTicket, frame, "EMP001")
	assert.Error(t, err)
	assert.Empty(t, svc.Tickets())
}

func TestPayslip(t *testing.T) {
	svc := NewService()
	svc.AddEmployee(Employee{ID: "EMP001", Department: "Engineering"}, nil)
	svc.AddSalary("EMP001", Salary{Basic: 15000, Housing: 3000, Transport: 500, Other: 1000, Deductions: 1500})
	ctx := context.Background()

	slip, err := svc.Payslip(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, 18000, slip.Net)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), slip.Period)
	assert.Equal(t, 15000, slip.Breakdown["basic_salary"])
	assert.Equal(t, 1500, slip.Breakdown["deductions"])

	_, err = svc.Payslip(ctx, "EMP999")
	assert.ErrorIs(t, err, domain.ErrPayslipNotFound)
}

func TestTicketStatus(t *testing.T) {
	svc := NewService()
	svc.AddTicket(TicketRecord{
		EmployeeID: "EMP001", Category: "it",
		Description: "vpn keeps dropping",
		Status:      domain.CommitPending,
		CreatedAt:   time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	ctx := context.Background()

	info, err := svc.TicketStatus(ctx, "EMP001", "TK-0001")
	require.NoError(t, err)
	assert.Equal(t, "TK-0001", info.ID)
	assert.Equal(t, domain.CommitPending, info.Status)
	assert.Equal(t, "2026-08-01", info.CreatedAt)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.TicketStatus(ctx, "EMP001", "TK-9999")
		assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	})

	t.Run("foreign ticket invisible", func(t *testing.T) {
		_, err := svc.TicketStatus(ctx, "EMP002", "TK-0001")
		assert.ErrorIs(t, err, domain.ErrTicketNotFound)
	})
}

func TestSeedScenarios(t *testing.T) {
	svc := Seed()
	ctx := context.Background()

	balances, err := svc.LeaveBalances(ctx, "EMP005")
	require.NoError(t, err)
	assert.Equal(t, 2, balances["annual"], "Omar's insufficient-balance scenario")

	leaves := svc.Leaves()
	require.NotEmpty(t, leaves, "Khalid's conflict scenario needs a seeded leave")
	assert.Equal(t, "EMP002", leaves[0].EmployeeID)

	slip, err := svc.Payslip(ctx, "EMP001")
	require.NoError(t, err)
	assert.Equal(t, 18000, slip.Net)

	info, err := svc.TicketStatus(ctx, "EMP001", "TK-0001")
	require.NoError(t, err)
	assert.Equal(t, domain.CommitPending, info.Status, "Ahmed's open IT ticket")
}
