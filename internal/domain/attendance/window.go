package attendance

import "time"

// ResolveWindow fills the missing bounds of a reporting window. A missing
// start becomes the first day of now's month and a missing end becomes now's
// date; each side is defaulted on its own. now must already be in the
// operational timezone.
func ResolveWindow(now time.Time, start, end *time.Time) (time.Time, time.Time) {
	today := DateOf(now)

	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	if start != nil {
		from = DateOf(*start)
	}

	to := today
	if end != nil {
		to = DateOf(*end)
	}

	return from, to
}
