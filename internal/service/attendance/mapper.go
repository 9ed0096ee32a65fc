package attendance

import (
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
)

func toEventResponse(e attendance.Event) attendance.EventResponse {
	resp := attendance.EventResponse{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		Date:       e.Date.Format(attendance.DateLayout),
		Time:       e.Time.String(),
		Kind:       string(e.Kind),
	}
	if !e.CreatedAt.IsZero() {
		resp.CreatedAt = e.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toEnrichedEventResponse(e attendance.EnrichedEvent) attendance.EnrichedEventResponse {
	return attendance.EnrichedEventResponse{
		EventResponse: toEventResponse(e.Event),
		EmployeeName:  e.EmployeeName,
		EmployeeEmail: e.EmployeeEmail,
	}
}

func toDateRange(start, end time.Time) attendance.DateRange {
	return attendance.DateRange{
		Start: start.Format(attendance.DateLayout),
		End:   end.Format(attendance.DateLayout),
	}
}

func toDayRecordResponse(r attendance.DayRecord) attendance.DayRecordResponse {
	resp := attendance.DayRecordResponse{
		Date:         r.Date.Format(attendance.DateLayout),
		EventCount:   r.EventCount,
		Inconsistent: r.Inconsistent,
	}

	if r.ClockIn != nil {
		s := r.ClockIn.String()
		resp.ClockIn = &s
	}
	if r.ClockOut != nil {
		s := r.ClockOut.String()
		resp.ClockOut = &s
	}

	switch {
	case r.Worked != nil:
		worked := r.Worked.String()
		minutes := r.Worked.TotalMinutes()
		resp.Worked = &worked
		resp.WorkedMinutes = &minutes
		resp.Status = "complete"
	case r.Inconsistent:
		resp.Status = "inconsistent"
	default:
		resp.Status = "incomplete"
	}

	return resp
}

func toTotalsResponse(t attendance.Totals) attendance.TotalsResponse {
	return attendance.TotalsResponse{
		TotalDays:          t.TotalDays,
		CompleteDays:       t.CompleteDays,
		IncompleteDays:     t.IncompleteDays,
		TotalWorked:        t.TotalWorked.String(),
		TotalWorkedMinutes: t.TotalWorked.TotalMinutes(),
	}
}
