package domain

// Conflict identifies one overlapping team absence found by the
// validation gateway. Conflicts are advisory: they are surfaced before
// confirmation but never block a commit.
type Conflict struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// ValidationOutcome is the read-only result of checking a complete frame.
// It is immutable once produced; any frame mutation invalidates it.
type ValidationOutcome struct {
	BalanceSufficient bool       `json:"balance_sufficient"`
	RequestedDays     int        `json:"requested_days,omitempty"`
	RemainingAfter    int        `json:"remaining_after"`
	Conflicts         []Conflict `json:"conflicts,omitempty"`
}

// CommitStatus is the terminal status of an executor write.
type CommitStatus string

const (
	CommitPending  CommitStatus = "pending"
	CommitApproved CommitStatus = "approved"
	CommitRejected CommitStatus = "rejected"
)

// CommitResult is what the action executor returns for a successful or
// failed write.
type CommitResult struct {
	ID     string       `json:"id"`
	Status CommitStatus `json:"status"`
}

// Payslip is one month's salary statement from the backend read side.
type Payslip struct {
	// Period is the statement month, YYYY-MM.
	Period string `json:"period"`
	// Net is the salary after allowances and deductions.
	Net int `json:"net_salary"`
	// Breakdown itemizes basic salary, allowances and deductions.
	Breakdown map[string]int `json:"breakdown"`
}

// TicketInfo is the read-side view of a submitted support ticket.
type TicketInfo struct {
	ID          string       `json:"ticket_id"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Status      CommitStatus `json:"status"`
	CreatedAt   string       `json:"created_at"`
}
