package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/keymutex"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/sse"
)

// EventClock is the SSE event name of an accepted clock action.
const EventClock = "attendance.clock"

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	clock    clock.Clock
	location *time.Location
	locks    *keymutex.KeyedMutex
	hub      *sse.Hub
	logger   *slog.Logger
}

// NewAttendanceService wires the attendance use cases. location is the
// operational timezone that decides which calendar day an event belongs to.
func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	clk clock.Clock,
	location *time.Location,
	hub *sse.Hub,
	logger *slog.Logger,
) attendance.AttendanceService {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		clock:                clk,
		location:             location,
		locks:                keymutex.New(),
		hub:                  hub,
		logger:               logger,
	}
}

func (s *AttendanceServiceImpl) now() time.Time {
	return s.clock.Now().In(s.location)
}

// Clock implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Clock(ctx context.Context, req attendance.ClockRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}
	kind, _ := attendance.ParseKind(req.Kind)

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.EventResponse{}, err
		}
		return attendance.EventResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	event := attendance.Event{
		EmployeeID: emp.ID,
		Kind:       kind,
	}

	// The event is stamped while both locks are held so that accepted events
	// of one employee are appended in time order.
	unlock := s.locks.Lock(event.EmployeeID)
	defer unlock()

	var created attendance.Event
	err = s.AttendanceRepository.WithinEmployee(ctx, event.EmployeeID, func(ctx context.Context) error {
		now := s.now()
		event.Date = attendance.DateOf(now)
		event.Time = attendance.TimeOfDayOf(now)

		events, err := s.AttendanceRepository.ListByEmployeeAndDate(ctx, event.EmployeeID, event.Date)
		if err != nil {
			return fmt.Errorf("failed to list today's events: %w", err)
		}

		if err := attendance.CheckTransition(events, kind); err != nil {
			return err
		}

		created, err = s.AttendanceRepository.Create(ctx, event)
		if err != nil {
			return fmt.Errorf("failed to record clock event: %w", err)
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, attendance.ErrAlreadyClockedIn), errors.Is(err, attendance.ErrNotClockedIn):
			s.logger.InfoContext(ctx, "clock rejected",
				slog.String("employee_id", event.EmployeeID),
				slog.String("kind", string(kind)),
				slog.String("reason", err.Error()))
		default:
			s.logger.ErrorContext(ctx, "clock failed",
				slog.String("employee_id", event.EmployeeID),
				slog.String("kind", string(kind)),
				slog.Any("error", err))
		}
		return attendance.EventResponse{}, err
	}

	s.logger.InfoContext(ctx, "clock accepted",
		slog.Int64("event_id", created.ID),
		slog.String("employee_id", created.EmployeeID),
		slog.String("kind", string(created.Kind)),
		slog.String("date", created.Date.Format(attendance.DateLayout)),
		slog.String("time", created.Time.String()))

	if s.hub != nil {
		s.hub.Publish(attendance.FeedTopic, sse.Event{
			Event: EventClock,
			Data: toEnrichedEventResponse(attendance.EnrichedEvent{
				Event:         created,
				EmployeeName:  emp.FullName,
				EmployeeEmail: emp.Email,
			}),
		})
	}

	return toEventResponse(created), nil
}

// Status implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Status(ctx context.Context, employeeID string) (attendance.StatusResponse, error) {
	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return attendance.StatusResponse{}, err
	}

	today := attendance.DateOf(s.now())
	events, err := s.AttendanceRepository.ListByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to list today's events: %w", err)
	}
	attendance.SortChronological(events)

	resp := attendance.StatusResponse{
		Date:        today.Format(attendance.DateLayout),
		Events:      make([]attendance.EventResponse, 0, len(events)),
		CanClockIn:  attendance.CheckTransition(events, attendance.KindClockIn) == nil,
		CanClockOut: attendance.CheckTransition(events, attendance.KindClockOut) == nil,
	}

	for _, e := range events {
		resp.Events = append(resp.Events, toEventResponse(e))
		t := e.Time.String()
		switch e.Kind {
		case attendance.KindClockIn:
			resp.LastClockIn = &t
		case attendance.KindClockOut:
			resp.LastClockOut = &t
		}
	}

	if last, ok := attendance.LastEvent(events); ok {
		k := string(last.Kind)
		resp.LastKind = &k
	}

	switch {
	case resp.LastKind == nil:
		resp.Message = "You have not clocked in today"
	case resp.CanClockOut:
		resp.Message = "You are clocked in since " + *resp.LastClockIn
	default:
		resp.Message = "You clocked out at " + *resp.LastClockOut
	}

	return resp, nil
}

// MyHistory implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MyHistory(ctx context.Context, employeeID string, filter attendance.RangeFilter) (attendance.HistoryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.HistoryResponse{}, err
	}

	start, end, err := s.resolveWindow(filter)
	if err != nil {
		return attendance.HistoryResponse{}, err
	}

	events, err := s.AttendanceRepository.ListByEmployeeInRange(ctx, employeeID, start, end)
	if err != nil {
		return attendance.HistoryResponse{}, fmt.Errorf("failed to list attendance history: %w", err)
	}
	attendance.SortRecentFirst(events)

	resp := attendance.HistoryResponse{
		Range:  toDateRange(start, end),
		Count:  len(events),
		Events: make([]attendance.EventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, toEventResponse(e))
	}

	return resp, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, filter attendance.SummaryFilter) (attendance.SummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.SummaryResponse{}, err
	}

	start, end, err := s.resolveWindow(filter.RangeFilter)
	if err != nil {
		return attendance.SummaryResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, filter.EmployeeID); err != nil {
		return attendance.SummaryResponse{}, err
	}

	events, err := s.AttendanceRepository.ListByEmployeeInRange(ctx, filter.EmployeeID, start, end)
	if err != nil {
		return attendance.SummaryResponse{}, fmt.Errorf("failed to list attendance events: %w", err)
	}

	records := attendance.Summarize(events)

	resp := attendance.SummaryResponse{
		EmployeeID: filter.EmployeeID,
		Range:      toDateRange(start, end),
		Days:       make([]attendance.DayRecordResponse, 0, len(records)),
		Totals:     toTotalsResponse(attendance.SummarizeTotals(records)),
	}
	for _, r := range records {
		resp.Days = append(resp.Days, toDayRecordResponse(r))
	}

	return resp, nil
}

// Search implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Search(ctx context.Context, filter attendance.SearchFilter) (attendance.SearchResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.SearchResponse{}, err
	}

	start, end, err := s.resolveWindow(filter.RangeFilter)
	if err != nil {
		return attendance.SearchResponse{}, err
	}

	rows, err := s.AttendanceRepository.Search(ctx, attendance.SearchCriteria{
		Start:        start,
		End:          end,
		Kind:         filter.Kind(),
		EmployeeID:   filter.EmployeeID,
		NameContains: filter.NameContains,
	})
	if err != nil {
		return attendance.SearchResponse{}, fmt.Errorf("failed to search attendance events: %w", err)
	}

	resp := attendance.SearchResponse{
		Range: toDateRange(start, end),
		Count: len(rows),
		Rows:  make([]attendance.EnrichedEventResponse, 0, len(rows)),
	}
	for _, row := range rows {
		resp.Rows = append(resp.Rows, toEnrichedEventResponse(row))
	}

	return resp, nil
}

// Subscribe implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Subscribe(ctx context.Context) (chan sse.Event, func()) {
	if s.hub == nil {
		ch := make(chan sse.Event)
		close(ch)
		return ch, func() {}
	}
	events, cleanup := s.hub.Subscribe(attendance.FeedTopic)
	s.logger.InfoContext(ctx, "feed subscriber attached",
		slog.Int("subscribers", s.hub.SubscriberCount(attendance.FeedTopic)))

	return events, func() {
		cleanup()
		s.logger.InfoContext(ctx, "feed subscriber detached",
			slog.Int("subscribers", s.hub.SubscriberCount(attendance.FeedTopic)))
	}
}

// resolveWindow fills missing bounds relative to today in the operational
// timezone and rejects inverted windows.
func (s *AttendanceServiceImpl) resolveWindow(filter attendance.RangeFilter) (time.Time, time.Time, error) {
	startPtr, endPtr := filter.Bounds()
	start, end := attendance.ResolveWindow(s.now(), startPtr, endPtr)
	if start.After(end) {
		return time.Time{}, time.Time{}, attendance.ErrInvalidDateRange
	}
	return start, end, nil
}
