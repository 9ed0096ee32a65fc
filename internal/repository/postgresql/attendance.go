package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_events (employee_id, date, time, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		event.EmployeeID,
		pgtype.Date{Time: event.Date, Valid: true},
		toPgTime(event.Time),
		string(event.Kind),
	).Scan(&event.ID, &event.CreatedAt)
	if err != nil {
		if isConstraintViolation(err, pgForeignKeyViolation, "") {
			return attendance.Event{}, employee.ErrEmployeeNotFound
		}
		return attendance.Event{}, classify(fmt.Errorf("failed to create attendance event: %w", err))
	}

	event.CreatedAt = event.CreatedAt.UTC()
	return event, nil
}

// ListByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, time, kind, created_at
		FROM attendance_events
		WHERE employee_id = $1 AND date = $2
		ORDER BY time ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, pgtype.Date{Time: date, Valid: true})
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list attendance events: %w", err))
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListByEmployeeInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployeeInRange(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, time, kind, created_at
		FROM attendance_events
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC, time DESC, id DESC
	`

	rows, err := q.Query(ctx, query, employeeID,
		pgtype.Date{Time: start, Valid: true},
		pgtype.Date{Time: end, Valid: true},
	)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to list attendance events: %w", err))
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Search implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Search(ctx context.Context, criteria attendance.SearchCriteria) ([]attendance.EnrichedEvent, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"a.date BETWEEN $1 AND $2"}
	args := []interface{}{
		pgtype.Date{Time: criteria.Start, Valid: true},
		pgtype.Date{Time: criteria.End, Valid: true},
	}
	argIdx := 3

	if criteria.Kind != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.kind = $%d", argIdx))
		args = append(args, string(*criteria.Kind))
		argIdx++
	}

	if criteria.EmployeeID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, *criteria.EmployeeID)
		argIdx++
	}

	if criteria.NameContains != nil {
		whereClauses = append(whereClauses, fmt.Sprintf(`e.full_name ILIKE '%%' || $%d || '%%' ESCAPE '\'`, argIdx))
		args = append(args, escapeLike(*criteria.NameContains))
		argIdx++
	}

	query := fmt.Sprintf(`
		SELECT a.id, a.employee_id, a.date, a.time, a.kind, a.created_at,
			COALESCE(e.full_name, ''), COALESCE(e.email, '')
		FROM attendance_events a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC, a.time DESC, a.id DESC
	`, strings.Join(whereClauses, " AND "))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to search attendance events: %w", err))
	}
	defer rows.Close()

	results := make([]attendance.EnrichedEvent, 0)
	for rows.Next() {
		var (
			ev    attendance.EnrichedEvent
			date  pgtype.Date
			clock pgtype.Time
			kind  string
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &date, &clock, &kind, &ev.CreatedAt, &ev.EmployeeName, &ev.EmployeeEmail); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		decodeEvent(&ev.Event, date, clock, kind)
		results = append(results, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate attendance events: %w", err))
	}

	return results, nil
}

// WithinEmployee implements attendance.AttendanceRepository. The
// transaction-scoped advisory lock is released on commit or rollback.
func (r *attendanceRepositoryImpl) WithinEmployee(ctx context.Context, employeeID string, fn func(ctx context.Context) error) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		lockKey := "attendance:" + employeeID
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", lockKey); err != nil {
			return classify(fmt.Errorf("failed to lock employee: %w", err))
		}
		return fn(ctx)
	})
}

func collectEvents(rows pgx.Rows) ([]attendance.Event, error) {
	events := make([]attendance.Event, 0)
	for rows.Next() {
		var (
			ev    attendance.Event
			date  pgtype.Date
			clock pgtype.Time
			kind  string
		)
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &date, &clock, &kind, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event: %w", err)
		}
		decodeEvent(&ev, date, clock, kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("failed to iterate attendance events: %w", err))
	}
	return events, nil
}

func decodeEvent(ev *attendance.Event, date pgtype.Date, clock pgtype.Time, kind string) {
	ev.Date = attendance.DateOf(date.Time)
	ev.Time = attendance.TimeOfDay(clock.Microseconds / int64(time.Second/time.Microsecond))
	ev.Kind = attendance.Kind(kind)
	ev.CreatedAt = ev.CreatedAt.UTC()
}

func toPgTime(t attendance.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: t.Duration().Microseconds(), Valid: true}
}

// escapeLike escapes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
