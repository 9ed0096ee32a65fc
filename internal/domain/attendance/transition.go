package attendance

import (
	"cmp"
	"slices"
)

// CheckTransition reports whether an event of the given kind may be appended
// to an employee-day that already holds events. Events may arrive in any
// order; they are compared by time of day with the id as tiebreaker.
//
// Within one employee-day the kinds must alternate IN, OUT, IN, OUT, ...
// so only the latest event decides legality.
func CheckTransition(events []Event, kind Kind) error {
	last, ok := LastEvent(events)

	switch kind {
	case KindClockIn:
		if ok && last.Kind == KindClockIn {
			return ErrAlreadyClockedIn
		}
	case KindClockOut:
		if !ok || last.Kind == KindClockOut {
			return ErrNotClockedIn
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

// LastEvent returns the most recent event by (date, time, id).
func LastEvent(events []Event) (Event, bool) {
	if len(events) == 0 {
		return Event{}, false
	}
	return slices.MaxFunc(events, compareChronological), true
}

// SortChronological orders events oldest first.
func SortChronological(events []Event) {
	slices.SortFunc(events, compareChronological)
}

// SortRecentFirst orders events newest first.
func SortRecentFirst(events []Event) {
	slices.SortFunc(events, func(a, b Event) int {
		return compareChronological(b, a)
	})
}

func compareChronological(a, b Event) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Time, b.Time); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
