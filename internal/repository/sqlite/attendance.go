package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

type attendanceRepositoryImpl struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{store: store}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := r.store.getQuerier(ctx)

	createdAt := event.CreatedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO attendance_events (employee_id, date, time, kind, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.EmployeeID,
		event.Date.Format(attendance.DateLayout),
		event.Time.String(),
		string(event.Kind),
		toMillis(createdAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return attendance.Event{}, employee.ErrEmployeeNotFound
		}
		return attendance.Event{}, classify(fmt.Errorf("failed to create attendance event: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to read attendance event id: %w", err)
	}

	event.ID = id
	event.CreatedAt = fromMillis(toMillis(createdAt))
	return event, nil
}

// ListByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.Event, error) {
	q := r.store.getQuerier(ctx)

	rows, err := q.QueryContext(ctx,
		`SELECT id, employee_id, date, time, kind, created_at
		 FROM attendance_events
		 WHERE employee_id = ? AND date = ?
		 ORDER BY time ASC, id ASC`,
		employeeID, date.Format(attendance.DateLayout),
	)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list attendance events: %w", err))
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByEmployeeInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Event, error) {
	q := r.store.getQuerier(ctx)

	rows, err := q.QueryContext(ctx,
		`SELECT id, employee_id, date, time, kind, created_at
		 FROM attendance_events
		 WHERE employee_id = ? AND date >= ? AND date <= ?
		 ORDER BY date DESC, time DESC, id DESC`,
		employeeID, start.Format(attendance.DateLayout), end.Format(attendance.DateLayout),
	)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list attendance events: %w", err))
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Search implements attendance.AttendanceRepository. The name filter runs
// in Go because SQLite's LIKE only folds ASCII.
func (r *attendanceRepositoryImpl) Search(ctx context.Context, criteria attendance.SearchCriteria) ([]attendance.EnrichedEvent, error) {
	q := r.store.getQuerier(ctx)

	whereClauses := []string{"a.date >= ?", "a.date <= ?"}
	args := []any{criteria.Start.Format(attendance.DateLayout), criteria.End.Format(attendance.DateLayout)}

	if criteria.Kind != nil {
		whereClauses = append(whereClauses, "a.kind = ?")
		args = append(args, string(*criteria.Kind))
	}
	if criteria.EmployeeID != nil {
		whereClauses = append(whereClauses, "a.employee_id = ?")
		args = append(args, *criteria.EmployeeID)
	}

	query := `
		SELECT a.id, a.employee_id, a.date, a.time, a.kind, a.created_at,
			COALESCE(e.full_name, ''), COALESCE(e.email, '')
		FROM attendance_events a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY a.date DESC, a.time DESC, a.id DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to search attendance events: %w", err))
	}
	defer rows.Close()

	var matcher *attendance.NameMatcher
	if criteria.NameContains != nil {
		matcher = attendance.NewNameMatcher(*criteria.NameContains)
	}

	results := make([]attendance.EnrichedEvent, 0)
	for rows.Next() {
		var (
			ev                attendance.EnrichedEvent
			date, clock, kind string
			createdAt         int64
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &date, &clock, &kind, &createdAt, &ev.EmployeeName, &ev.EmployeeEmail); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		if matcher != nil && !matcher.Match(ev.EmployeeName) {
			continue
		}
		if err := decodeEvent(&ev.Event, date, clock, kind, createdAt); err != nil {
			return nil, err
		}
		results = append(results, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate attendance events: %w", err))
	}

	return results, nil
}

// WithinEmployee implements attendance.AttendanceRepository. SQLite
// allows one writer at a time, so the IMMEDIATE transaction is the lock.
func (r *attendanceRepositoryImpl) WithinEmployee(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	return r.store.withTransaction(ctx, fn)
}

func scanEvents(rows *sql.Rows) ([]attendance.Event, error) {
	events := make([]attendance.Event, 0)
	for rows.Next() {
		var (
			ev                attendance.Event
			date, clock, kind string
			createdAt         int64
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &date, &clock, &kind, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		if err := decodeEvent(&ev, date, clock, kind, createdAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate attendance events: %w", err))
	}
	return events, nil
}

func decodeEvent(ev *attendance.Event, date, clock, kind string, createdAt int64) error {
	d, err := attendance.ParseDate(date)
	if err != nil {
		return fmt.Errorf("corrupt date %q on event %d: %w", date, ev.ID, err)
	}
	t, err := attendance.ParseTimeOfDay(clock)
	if err != nil {
		return fmt.Errorf("corrupt time on event %d: %w", ev.ID, err)
	}
	ev.Date = d
	ev.Time = t
	ev.Kind = attendance.Kind(kind)
	ev.CreatedAt = fromMillis(createdAt)
	return nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
