package attendance

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire and storage format of times of day.
const TimeLayout = "15:04:05"

type Kind string

const (
	KindClockIn  Kind = "IN"
	KindClockOut Kind = "OUT"
)

func (k Kind) IsValid() bool {
	return k == KindClockIn || k == KindClockOut
}

// ParseKind accepts "in"/"out" in any case.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

// Event is a single clock action. Events are append-only: once stored they
// are never updated or deleted.
type Event struct {
	ID         int64
	EmployeeID string
	Date       time.Time // calendar date, 00:00 UTC
	Time       TimeOfDay
	Kind       Kind
	CreatedAt  time.Time
}

// EnrichedEvent is an Event joined with read-only employee identity data.
type EnrichedEvent struct {
	Event
	EmployeeName  string
	EmployeeEmail string
}

// SearchCriteria is a resolved admin search: the window is always set.
type SearchCriteria struct {
	Start        time.Time
	End          time.Time
	Kind         *Kind
	EmployeeID   *string
	NameContains *string
}

// DateOf returns the calendar date of t in t's own location, as 00:00 UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

// TimeOfDay is the number of seconds since local midnight.
type TimeOfDay int32

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(hour*3600 + minute*60 + second)
}

// TimeOfDayOf returns the wall-clock time of t in t's own location, truncated to the second.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDayOf(t), nil
}

func (t TimeOfDay) Hour() int   { return int(t) / 3600 }
func (t TimeOfDay) Minute() int { return int(t) % 3600 / 60 }
func (t TimeOfDay) Second() int { return int(t) % 60 }

// Sub returns the duration t-u.
func (t TimeOfDay) Sub(u TimeOfDay) time.Duration {
	return time.Duration(int64(t)-int64(u)) * time.Second
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
}
