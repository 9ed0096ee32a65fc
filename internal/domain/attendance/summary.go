package attendance

import (
	"fmt"
	"slices"
	"time"
)

// WorkDuration is elapsed work time floored to whole minutes.
type WorkDuration struct {
	Hours   int
	Minutes int
}

func NewWorkDuration(d time.Duration) WorkDuration {
	mins := int(d / time.Minute)
	return WorkDuration{Hours: mins / 60, Minutes: mins % 60}
}

func (w WorkDuration) TotalMinutes() int {
	return w.Hours*60 + w.Minutes
}

func (w WorkDuration) String() string {
	return fmt.Sprintf("%dh%dm", w.Hours, w.Minutes)
}

// DayRecord is the first-in / last-out view of one employee-day.
//
// Inconsistent is set when both ends exist but ClockOut is not after
// ClockIn; Worked is nil in that case.
type DayRecord struct {
	Date         time.Time
	ClockIn      *TimeOfDay
	ClockOut     *TimeOfDay
	EventCount   int
	Worked       *WorkDuration
	Inconsistent bool
}

func (r DayRecord) Complete() bool {
	return r.Worked != nil
}

// Summarize groups events by calendar date and returns one record per date,
// most recent date first. Extra IN/OUT cycles inside a day are folded into
// the earliest IN and the latest OUT.
func Summarize(events []Event) []DayRecord {
	byDate := make(map[int64]*DayRecord)
	var order []int64

	for _, e := range events {
		key := e.Date.Unix()
		rec, ok := byDate[key]
		if !ok {
			rec = &DayRecord{Date: e.Date}
			byDate[key] = rec
			order = append(order, key)
		}
		rec.EventCount++

		t := e.Time
		switch e.Kind {
		case KindClockIn:
			if rec.ClockIn == nil || t < *rec.ClockIn {
				rec.ClockIn = &t
			}
		case KindClockOut:
			if rec.ClockOut == nil || t > *rec.ClockOut {
				rec.ClockOut = &t
			}
		}
	}

	records := make([]DayRecord, 0, len(order))
	for _, d := range order {
		rec := byDate[d]
		if rec.ClockIn != nil && rec.ClockOut != nil {
			elapsed := rec.ClockOut.Sub(*rec.ClockIn)
			if elapsed <= 0 {
				rec.Inconsistent = true
			} else {
				w := NewWorkDuration(elapsed)
				rec.Worked = &w
			}
		}
		records = append(records, *rec)
	}

	sortRecordsRecentFirst(records)
	return records
}

func sortRecordsRecentFirst(records []DayRecord) {
	slices.SortFunc(records, func(a, b DayRecord) int {
		return b.Date.Compare(a.Date)
	})
}

type Totals struct {
	TotalDays      int
	CompleteDays   int
	IncompleteDays int
	TotalWorked    WorkDuration
}

// SummarizeTotals sums the exact worked time of complete days and floors once.
func SummarizeTotals(records []DayRecord) Totals {
	var t Totals
	var worked time.Duration
	for _, r := range records {
		t.TotalDays++
		if !r.Complete() {
			t.IncompleteDays++
			continue
		}
		t.CompleteDays++
		worked += r.ClockOut.Sub(*r.ClockIn)
	}
	t.TotalWorked = NewWorkDuration(worked)
	return t
}
