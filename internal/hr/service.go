// Package hr is the reference HR backend: an in-memory directory of
// employees, leave balances, team calendars and submitted requests. It
// implements the validation gateway and action executor ports the
// workflow engine consumes.
package hr

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// Employee is one directory entry.
type Employee struct {
	ID         string
	Name       string
	NameArabic string
	Department string
	Title      string
	HireDate   time.Time
}

// LeaveRecord is a submitted (pending or approved) leave request.
type LeaveRecord struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Status     domain.CommitStatus
}

// ExcuseRecord is a submitted excuse request.
type ExcuseRecord struct {
	ID         string
	EmployeeID string
	ExcuseType string
	Date       time.Time
	Time       string
	Reason     string
	Status     domain.CommitStatus
}

// TicketRecord is a submitted support ticket.
type TicketRecord struct {
	ID          string
	EmployeeID  string
	Category    string
	Description string
	Status      domain.CommitStatus
	CreatedAt   time.Time
}

// Salary is an employee's monthly pay structure, used to produce
// payslips.
type Salary struct {
	Basic      int
	Housing    int
	Transport  int
	Other      int
	Deductions int
}

// Net is the monthly take-home amount.
func (s Salary) Net() int {
	return s.Basic + s.Housing + s.Transport + s.Other - s.Deductions
}

// Service holds the HR records behind a single mutex. It is the
// write-side and read-side backend for a single-process deployment.
type Service struct {
	mu        sync.Mutex
	employees map[string]*Employee
	balances  map[string]map[string]int // employee -> leave type -> days
	salaries  map[string]Salary
	leaves    []LeaveRecord
	excuses   []ExcuseRecord
	tickets   []TicketRecord
	leaveSeq  int
	excuseSeq int
	ticketSeq int
}

// NewService creates an empty HR backend.
func NewService() *Service {
	return &Service{
		employees: make(map[string]*Employee),
		balances:  make(map[string]map[string]int),
		salaries:  make(map[string]Salary),
	}
}

// AddEmployee registers an employee with leave balances.
func (s *Service) AddEmployee(e Employee, balances map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := e
	s.employees[e.ID] = &cp
	b := make(map[string]int, len(balances))
	for k, v := range balances {
		b[k] = v
	}
	s.balances[e.ID] = b
}

// AddLeave seeds an existing leave record (e.g. a colleague's approved
// leave used by conflict detection).
func (s *Service) AddLeave(rec LeaveRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveSeq++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("LR-%04d", s.leaveSeq)
	}
	s.leaves = append(s.leaves, rec)
}

// AddSalary registers an employee's pay structure.
func (s *Service) AddSalary(employeeID string, salary Salary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.salaries[employeeID] = salary
}

// AddTicket seeds an existing support ticket.
func (s *Service) AddTicket(rec TicketRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticketSeq++
	if rec.ID == "" {
		rec.ID = fmt.Sprintf("TK-%04d", s.ticketSeq)
	}
	s.tickets = append(s.tickets, rec)
}

// LeaveBalances returns the remaining days per leave type for an
// employee. Implements workflow.BalanceReader.
func (s *Service) LeaveBalances(ctx context.Context, actorID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances, ok := s.balances[actorID]
	if !ok {
		return nil, fmt.Errorf("no leave balance found for employee %s", actorID)
	}
	out := make(map[string]int, len(balances))
	for k, v := range balances {
		out[k] = v
	}
	return out, nil
}

// Check implements ports.ValidationGateway: balance sufficiency plus a
// team calendar scan for overlapping absences in the actor's department.
// It is read-only.
func (s *Service) Check(ctx context.Context, kind domain.ActionKind, frame *domain.SlotFrame, actorID string) (*domain.ValidationOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case domain.ActionLeaveRequest:
		return s.checkLeave(frame, actorID)
	case domain.ActionExcuseRequest:
		// Excuses have no balance; only the duplicate check at commit
		// time applies.
		return &domain.ValidationOutcome{BalanceSufficient: true}, nil
	case domain.ActionSupportTicket:
		// Tickets draw on nothing; confirmation is still mandatory.
		return &domain.ValidationOutcome{BalanceSufficient: true}, nil
	default:
		return nil, domain.ErrUnknownAction
	}
}

// Payslip returns the actor's current-month salary statement.
// Implements workflow.PayslipReader.
func (s *Service) Payslip(ctx context.Context, actorID string) (domain.Payslip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	salary, ok := s.salaries[actorID]
	if !ok {
		return domain.Payslip{}, fmt.Errorf("%w: employee %s", domain.ErrPayslipNotFound, actorID)
	}
	return domain.Payslip{
		Period: time.Now().UTC().Format("2006-01"),
		Net:    salary.Net(),
		Breakdown: map[string]int{
			"basic_salary":        salary.Basic,
			"housing_allowance":   salary.Housing,
			"transport_allowance": salary.Transport,
			"other_allowances":    salary.Other,
			"deductions":          salary.Deductions,
		},
	}, nil
}

// TicketStatus looks up one of the actor's support tickets. Implements
// workflow.TicketReader; tickets of other employees are not visible.
func (s *Service) TicketStatus(ctx context.Context, actorID, ticketID string) (domain.TicketInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.tickets {
		if rec.ID != ticketID || rec.EmployeeID != actorID {
			continue
		}
		return domain.TicketInfo{
			ID:          rec.ID,
			Category:    rec.Category,
			Description: rec.Description,
			Status:      rec.Status,
			CreatedAt:   rec.CreatedAt.Format("2006-01-02"),
		}, nil
	}
	return domain.TicketInfo{}, fmt.Errorf("%w: %s", domain.ErrTicketNotFound, ticketID)
}

func (s *Service) checkLeave(frame *domain.SlotFrame, actorID string) (*domain.ValidationOutcome, error) {
	start, end, err := frame.Dates()
	if err != nil {
		return nil, err
	}
	leaveType, _ := frame.Get("leave_type")
	requested := int(end.Sub(start).Hours()/24) + 1

	outcome := &domain.ValidationOutcome{
		RequestedDays: requested,
		Conflicts:     s.overlapping(actorID, start, end),
	}

	// Unpaid leave never draws on a balance.
	if leaveType == "unpaid" {
		outcome.BalanceSufficient = true
		outcome.RemainingAfter = s.balanceFor(actorID, leaveType)
		return outcome, nil
	}

	available := s.balanceFor(actorID, leaveType)
	outcome.RemainingAfter = available - requested
	outcome.BalanceSufficient = available >= requested
	return outcome, nil
}

func (s *Service) balanceFor(actorID, leaveType string) int {
	if b, ok := s.balances[actorID]; ok {
		return b[leaveType]
	}
	return 0
}

// overlapping finds pending/approved leaves of department colleagues
// that intersect [start, end].
func (s *Service) overlapping(actorID string, start, end time.Time) []domain.Conflict {
	actor, ok := s.employees[actorID]
	if !ok {
		return nil
	}

	var conflicts []domain.Conflict
	for _, rec := range s.leaves {
		if rec.EmployeeID == actorID {
			continue
		}
		if rec.Status != domain.CommitPending && rec.Status != domain.CommitApproved {
			continue
		}
		colleague, ok := s.employees[rec.EmployeeID]
		if !ok || colleague.Department != actor.Department {
			continue
		}
		if rec.StartDate.After(end) || rec.EndDate.Before(start) {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			EmployeeID:   rec.EmployeeID,
			EmployeeName: colleague.Name,
			StartDate:    rec.StartDate.Format("2006-01-02"),
			EndDate:      rec.EndDate.Format("2006-01-02"),
		})
	}
	return conflicts
}

// Commit implements ports.ActionExecutor: the committing write.
func (s *Service) Commit(ctx context.Context, kind domain.ActionKind, frame *domain.SlotFrame, actorID string) (domain.CommitResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.CommitResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case domain.ActionLeaveRequest:
		return s.commitLeave(frame, actorID)
	case domain.ActionExcuseRequest:
		return s.commitExcuse(frame, actorID)
	case domain.ActionSupportTicket:
		return s.commitTicket(frame, actorID)
	default:
		return domain.CommitResult{}, domain.ErrUnknownAction
	}
}

func (s *Service) commitLeave(frame *domain.SlotFrame, actorID string) (domain.CommitResult, error) {
	start, end, err := frame.Dates()
	if err != nil {
		return domain.CommitResult{}, err
	}
	leaveType, _ := frame.Get("leave_type")
	requested := int(end.Sub(start).Hours()/24) + 1

	if leaveType != "unpaid" {
		available := s.balanceFor(actorID, leaveType)
		if available < requested {
			return domain.CommitResult{}, fmt.Errorf("%w: have %d days, requested %d",
				domain.ErrInsufficientBalance, available, requested)
		}
		s.balances[actorID][leaveType] = available - requested
	}

	s.leaveSeq++
	rec := LeaveRecord{
		ID:         fmt.Sprintf("LR-%04d", s.leaveSeq),
		EmployeeID: actorID,
		LeaveType:  leaveType,
		StartDate:  start,
		EndDate:    end,
		Status:     domain.CommitPending,
	}
	s.leaves = append(s.leaves, rec)
	return domain.CommitResult{ID: rec.ID, Status: rec.Status}, nil
}

func (s *Service) commitExcuse(frame *domain.SlotFrame, actorID string) (domain.CommitResult, error) {
	rawDate, _ := frame.Get("date")
	day, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("invalid excuse date %q: %w", rawDate, err)
	}
	excuseType, _ := frame.Get("excuse_type")
	reason, _ := frame.Get("reason")
	if strings.TrimSpace(reason) == "" {
		return domain.CommitResult{}, fmt.Errorf("reason is required for excuse requests")
	}

	// One excuse per (employee, day, type). This is the backend's own
	// record-level dedup, separate from the engine's resubmission
	// suppression.
	for _, rec := range s.excuses {
		if rec.EmployeeID == actorID && rec.ExcuseType == excuseType && rec.Date.Equal(day) {
			return domain.CommitResult{}, fmt.Errorf("%w: excuse %s already covers %s",
				domain.ErrDuplicateSubmission, rec.ID, rawDate)
		}
	}

	clock, _ := frame.Get("time")
	s.excuseSeq++
	rec := ExcuseRecord{
		ID:         fmt.Sprintf("EX-%04d", s.excuseSeq),
		EmployeeID: actorID,
		ExcuseType: excuseType,
		Date:       day,
		Time:       clock,
		Reason:     reason,
		Status:     domain.CommitPending,
	}
	s.excuses = append(s.excuses, rec)
	return domain.CommitResult{ID: rec.ID, Status: rec.Status}, nil
}

func (s *Service) commitTicket(frame *domain.SlotFrame, actorID string) (domain.CommitResult, error) {
	category, _ := frame.Get("category")
	description, _ := frame.Get("description")
	if strings.TrimSpace(description) == "" {
		return domain.CommitResult{}, fmt.Errorf("description is required for support tickets")
	}

	s.ticketSeq++
	rec := TicketRecord{
		ID:          fmt.Sprintf("TK-%04d", s.ticketSeq),
		EmployeeID:  actorID,
		Category:    category,
		Description: description,
		Status:      domain.CommitPending,
		CreatedAt:   time.Now().UTC(),
	}
	s.tickets = append(s.tickets, rec)
	return domain.CommitResult{ID: rec.ID, Status: rec.Status}, nil
}

// Leaves returns a copy of the recorded leave requests.
func (s *Service) Leaves() []LeaveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LeaveRecord(nil), s.leaves...)
}

// Excuses returns a copy of the recorded excuses.
func (s *Service) Excuses() []ExcuseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExcuseRecord(nil), s.excuses...)
}

// Tickets returns a copy of the recorded support tickets.
func (s *Service) Tickets() []TicketRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TicketRecord(nil), s.tickets...)
}
