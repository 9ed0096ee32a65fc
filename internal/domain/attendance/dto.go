package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockRequest struct {
	EmployeeID string `json:"-"`
	Kind       string `json:"kind"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, err := ParseKind(r.Kind); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: IN, OUT",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventResponse struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	Kind       string `json:"kind"`
	CreatedAt  string `json:"created_at,omitempty"`
}

type EnrichedEventResponse struct {
	EventResponse
	EmployeeName  string `json:"employee_name"`
	EmployeeEmail string `json:"employee_email"`
}

// ========================================
// FILTER DTOs
// ========================================

// RangeFilter is an optional reporting window. Nil bounds are defaulted.
type RangeFilter struct {
	StartDate *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *RangeFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = appendDateErrors(errs, "start_date", f.StartDate)
	errs = appendDateErrors(errs, "end_date", f.EndDate)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Bounds returns the parsed bounds. Call after Validate.
func (f *RangeFilter) Bounds() (*time.Time, *time.Time) {
	return parseOptionalDate(f.StartDate), parseOptionalDate(f.EndDate)
}

type SummaryFilter struct {
	EmployeeID string `json:"employee_id"`
	RangeFilter
}

func (f *SummaryFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	errs = appendDateErrors(errs, "start_date", f.StartDate)
	errs = appendDateErrors(errs, "end_date", f.EndDate)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SearchFilter is the administrator search. Every field is optional.
// NameContains matches the employee's full name case-insensitively.
type SearchFilter struct {
	RangeFilter
	Status       *string `json:"status,omitempty"` // IN, OUT
	EmployeeID   *string `json:"employee_id,omitempty"`
	NameContains *string `json:"name_contains,omitempty"`
}

func (f *SearchFilter) Validate() error {
	var errs validator.ValidationErrors
	errs = appendDateErrors(errs, "start_date", f.StartDate)
	errs = appendDateErrors(errs, "end_date", f.EndDate)

	if f.Status != nil {
		if _, err := ParseKind(*f.Status); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: IN, OUT",
			})
		}
	}

	if f.EmployeeID != nil && validator.IsEmpty(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must not be blank",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Kind returns the parsed status filter. Call after Validate.
func (f *SearchFilter) Kind() *Kind {
	if f.Status == nil {
		return nil
	}
	k, err := ParseKind(*f.Status)
	if err != nil {
		return nil
	}
	return &k
}

func appendDateErrors(errs validator.ValidationErrors, field string, value *string) validator.ValidationErrors {
	if value == nil {
		return errs
	}
	if _, valid := validator.IsValidDate(*value); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: field + " must be in YYYY-MM-DD format",
		})
	}
	return errs
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil
	}
	return &d
}

// ========================================
// RESPONSE DTOs
// ========================================

type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type DayRecordResponse struct {
	Date          string  `json:"date"`
	ClockIn       *string `json:"clock_in"`
	ClockOut      *string `json:"clock_out"`
	EventCount    int     `json:"event_count"`
	Worked        *string `json:"worked,omitempty"`
	WorkedMinutes *int    `json:"worked_minutes,omitempty"`
	Inconsistent  bool    `json:"inconsistent"`
	Status        string  `json:"status"` // complete, incomplete, inconsistent
}

type TotalsResponse struct {
	TotalDays          int    `json:"total_days"`
	CompleteDays       int    `json:"complete_days"`
	IncompleteDays     int    `json:"incomplete_days"`
	TotalWorked        string `json:"total_worked"`
	TotalWorkedMinutes int    `json:"total_worked_minutes"`
}

type SummaryResponse struct {
	EmployeeID string              `json:"employee_id"`
	Range      DateRange           `json:"range"`
	Days       []DayRecordResponse `json:"days"`
	Totals     TotalsResponse      `json:"totals"`
}

type SearchResponse struct {
	Range DateRange               `json:"range"`
	Count int                     `json:"count"`
	Rows  []EnrichedEventResponse `json:"rows"`
}

type HistoryResponse struct {
	Range  DateRange       `json:"range"`
	Count  int             `json:"count"`
	Events []EventResponse `json:"events"`
}

type StatusResponse struct {
	Date         string          `json:"date"`
	LastKind     *string         `json:"last_kind"`
	LastClockIn  *string         `json:"last_clock_in"`
	LastClockOut *string         `json:"last_clock_out"`
	Events       []EventResponse `json:"events"`
	CanClockIn   bool            `json:"can_clock_in"`
	CanClockOut  bool            `json:"can_clock_out"`
	Message      string          `json:"message"`
}
