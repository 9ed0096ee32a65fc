package employee

import "time"

// Employee is the identity record owned by the HR side. Attendance reads it
// for existence checks and display enrichment and never modifies it.
type Employee struct {
	ID               string
	EmployeeCode     string
	FullName         string
	Email            string
	PhoneNumber      *string
	Position         *string
	EmploymentStatus EmploymentStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
