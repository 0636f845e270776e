package hr

import (
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
)

// Seed returns a service populated with the demo directory: a small
// engineering team where one colleague already has leave booked next
// Monday (conflict scenario) and one junior has almost no balance left
// (insufficient-balance scenario).
func Seed() *Service {
	s := NewService()
	s.AddEmployee(Employee{
		ID: "EMP001", Name: "Ahmed Al-Rashid", NameArabic: "أحمد الراشد",
		Department: "Engineering", Title: "Senior Developer",
		HireDate: time.Date(2021, 3, 15, 0, 0, 0, 0, time.UTC),
	}, map[string]int{"annual": 21, "sick": 10, "unpaid": 30})

	s.AddEmployee(Employee{
		ID: "EMP002", Name: "Khalid Ibrahim", NameArabic: "خالد إبراهيم",
		Department: "Engineering", Title: "Software Developer",
		HireDate: time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
	}, map[string]int{"annual": 18, "sick": 8, "unpaid": 30})

	s.AddEmployee(Employee{
		ID: "EMP003", Name: "Sara Mohammed", NameArabic: "سارة محمد",
		Department: "Engineering", Title: "Engineering Manager",
		HireDate: time.Date(2019, 1, 10, 0, 0, 0, 0, time.UTC),
	}, map[string]int{"annual": 25, "sick": 10, "unpaid": 30})

	s.AddEmployee(Employee{
		ID: "EMP004", Name: "Fatima Hassan", NameArabic: "فاطمة حسن",
		Department: "HR", Title: "HR Specialist",
		HireDate: time.Date(2020, 9, 20, 0, 0, 0, 0, time.UTC),
	}, map[string]int{"annual": 20, "sick": 10, "unpaid": 30})

	s.AddEmployee(Employee{
		ID: "EMP005", Name: "Omar Nasser", NameArabic: "عمر ناصر",
		Department: "Engineering", Title: "Junior Developer",
		HireDate: time.Date(2024, 8, 5, 0, 0, 0, 0, time.UTC),
	}, map[string]int{"annual": 2, "sick": 5, "unpaid": 30})

	s.AddSalary("EMP001", Salary{Basic: 15000, Housing: 3000, Transport: 500, Other: 1000, Deductions: 1500})
	s.AddSalary("EMP002", Salary{Basic: 12000, Housing: 2500, Transport: 500, Other: 800, Deductions: 1200})
	s.AddSalary("EMP003", Salary{Basic: 20000, Housing: 4000, Transport: 500, Other: 2000, Deductions: 2000})
	s.AddSalary("EMP004", Salary{Basic: 11000, Housing: 2200, Transport: 500, Other: 600, Deductions: 1100})
	s.AddSalary("EMP005", Salary{Basic: 7000, Housing: 1500, Transport: 500, Other: 300, Deductions: 700})

	// Khalid is out next Monday; booking the same day from Engineering
	// triggers the advisory conflict.
	monday := nextMonday(time.Now().UTC())
	s.AddLeave(LeaveRecord{
		EmployeeID: "EMP002",
		LeaveType:  "annual",
		StartDate:  monday,
		EndDate:    monday,
		Status:     domain.CommitApproved,
	})

	// Ahmed has an open IT ticket for status-check conversations.
	s.AddTicket(TicketRecord{
		EmployeeID:  "EMP001",
		Category:    "it",
		Description: "VPN connection issues when working remotely",
		Status:      domain.CommitPending,
		CreatedAt:   time.Now().UTC(),
	})
	return s
}

func nextMonday(from time.Time) time.Time {
	day := from.Truncate(24 * time.Hour)
	ahead := (int(time.Monday) - int(day.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return day.AddDate(0, 0, ahead)
}
