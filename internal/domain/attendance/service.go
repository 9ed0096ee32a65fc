package attendance

import (
	"context"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
)

// FeedTopic is the hub topic that receives every accepted clock event.
const FeedTopic = "attendance.feed"

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Clock records an IN or OUT for the employee if the transition is legal today
	Clock(ctx context.Context, req ClockRequest) (EventResponse, error)

	// Status reports today's events and which clock action is allowed next
	Status(ctx context.Context, employeeID string) (StatusResponse, error)

	// MyHistory lists the raw events of one employee in a window, most recent first
	MyHistory(ctx context.Context, employeeID string, filter RangeFilter) (HistoryResponse, error)

	// Summary aggregates one employee's events into per-day records
	Summary(ctx context.Context, filter SummaryFilter) (SummaryResponse, error)

	// Search lists events of all employees for administrators
	Search(ctx context.Context, filter SearchFilter) (SearchResponse, error)

	// Subscribe attaches to the live feed of accepted clock events
	Subscribe(ctx context.Context) (chan sse.Event, func())
}
