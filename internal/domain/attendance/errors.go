package attendance

import "errors"

// Attendance domain errors
var (
	// Clock transition rejections
	ErrAlreadyClockedIn = errors.New("you are already clocked in")
	ErrNotClockedIn     = errors.New("you have not clocked in yet")

	// Request errors
	ErrInvalidKind      = errors.New("kind must be IN or OUT")
	ErrInvalidDateRange = errors.New("start_date must not be after end_date")

	// Infrastructure
	ErrStoreUnavailable = errors.New("attendance store is unavailable")
)
