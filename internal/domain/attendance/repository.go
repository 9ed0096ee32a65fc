package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the append-only clock event store.
type AttendanceRepository interface {
	// Create appends a new event and returns it with its store-assigned ID
	Create(ctx context.Context, event Event) (Event, error)

	// ListByEmployeeAndDate returns every event of one employee-day, oldest first
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Event, error)

	// ListByEmployeeInRange returns events with date in [start, end], most recent first
	ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]Event, error)

	// Search returns enriched events matching criteria, ordered by date, time and id descending
	Search(ctx context.Context, criteria SearchCriteria) ([]EnrichedEvent, error)

	// WithinEmployee runs fn while holding the store-level lock of one
	// employee. Repository calls made with the ctx passed to fn join the
	// same transaction.
	WithinEmployee(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error
}
