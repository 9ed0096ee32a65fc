package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "attendance.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedEmployee(t *testing.T, store *Store, id, name string) {
	t.Helper()
	_, err := NewEmployeeRepository(store).Create(context.Background(), employee.Employee{
		ID:           id,
		EmployeeCode: "CODE-" + id,
		FullName:     name,
		Email:        id + "@example.com",
	})
	require.NoError(t, err)
}

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := attendance.ParseDate(s)
	require.NoError(t, err)
	return d
}

func createEvent(t *testing.T, repo attendance.AttendanceRepository, employeeID, day, clock string, kind attendance.Kind) attendance.Event {
	t.Helper()
	tod, err := attendance.ParseTimeOfDay(clock)
	require.NoError(t, err)
	ev, err := repo.Create(context.Background(), attendance.Event{
		EmployeeID: employeeID,
		Date:       date(t, day),
		Time:       tod,
		Kind:       kind,
	})
	require.NoError(t, err)
	return ev
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "  ")
	assert.Error(t, err)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.db")

	first, err := Open(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.sqlDB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
	assert.NoError(t, second.Ping(context.Background()))
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (id INT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (id INT);\n", extractUpMigration(content))
	assert.Equal(t, "SELECT 1;", extractUpMigration("SELECT 1;"))
}

func TestEmployeeRepository_CreateAndGet(t *testing.T) {
	store := openTestStore(t)
	repo := NewEmployeeRepository(store)
	ctx := context.Background()

	position := "Engineer"
	created, err := repo.Create(ctx, employee.Employee{
		ID:           "emp-1",
		EmployeeCode: "E001",
		FullName:     "Siti Rahma",
		Email:        "siti@example.com",
		Position:     &position,
	})
	require.NoError(t, err)
	assert.Equal(t, employee.EmploymentStatusActive, created.EmploymentStatus)

	got, err := repo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", got.FullName)
	require.NotNil(t, got.Position)
	assert.Equal(t, "Engineer", *got.Position)
	assert.Nil(t, got.PhoneNumber)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestEmployeeRepository_CreateDuplicates(t *testing.T) {
	store := openTestStore(t)
	repo := NewEmployeeRepository(store)
	ctx := context.Background()

	_, err := repo.Create(ctx, employee.Employee{ID: "emp-1", EmployeeCode: "E001", FullName: "A", Email: "a@example.com"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, employee.Employee{ID: "emp-2", EmployeeCode: "E001", FullName: "B", Email: "b@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	_, err = repo.Create(ctx, employee.Employee{ID: "emp-3", EmployeeCode: "E003", FullName: "C", Email: "a@example.com"})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
}

func TestAttendanceRepository_CreateAssignsIncreasingIDs(t *testing.T) {
	store := openTestStore(t)
	seedEmployee(t, store, "emp-1", "Ana")
	repo := NewAttendanceRepository(store)

	first := createEvent(t, repo, "emp-1", "2024-03-01", "08:00:00", attendance.KindClockIn)
	second := createEvent(t, repo, "emp-1", "2024-03-01", "17:00:00", attendance.KindClockOut)

	assert.Greater(t, first.ID, int64(0))
	assert.Greater(t, second.ID, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestAttendanceRepository_CreateRejectsUnknownEmployee(t *testing.T) {
	store := openTestStore(t)
	repo := NewAttendanceRepository(store)

	_, err := repo.Create(context.Background(), attendance.Event{
		EmployeeID: "ghost",
		Date:       date(t, "2024-03-01"),
		Time:       attendance.NewTimeOfDay(8, 0, 0),
		Kind:       attendance.KindClockIn,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceRepository_ListByEmployeeAndDate(t *testing.T) {
	store := openTestStore(t)
	seedEmployee(t, store, "emp-1", "Ana")
	seedEmployee(t, store, "emp-2", "Budi")
	repo := NewAttendanceRepository(store)

	createEvent(t, repo, "emp-1", "2024-03-01", "17:00:00", attendance.KindClockOut)
	createEvent(t, repo, "emp-1", "2024-03-01", "08:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-1", "2024-03-02", "08:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-2", "2024-03-01", "09:00:00", attendance.KindClockIn)

	events, err := repo.ListByEmployeeAndDate(context.Background(), "emp-1", date(t, "2024-03-01"))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "08:00:00", events[0].Time.String())
	assert.Equal(t, "17:00:00", events[1].Time.String())
	assert.True(t, events[0].Date.Equal(date(t, "2024-03-01")))

	empty, err := repo.ListByEmployeeAndDate(context.Background(), "emp-1", date(t, "2024-03-05"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAttendanceRepository_ListByEmployeeInRange(t *testing.T) {
	store := openTestStore(t)
	seedEmployee(t, store, "emp-1", "Ana")
	repo := NewAttendanceRepository(store)

	createEvent(t, repo, "emp-1", "2024-02-29", "08:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-1", "2024-03-01", "08:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-1", "2024-03-01", "17:00:00", attendance.KindClockOut)
	createEvent(t, repo, "emp-1", "2024-03-03", "09:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-1", "2024-03-04", "09:00:00", attendance.KindClockIn)

	events, err := repo.ListByEmployeeInRange(context.Background(), "emp-1", date(t, "2024-03-01"), date(t, "2024-03-03"))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "2024-03-03", events[0].Date.Format(attendance.DateLayout))
	assert.Equal(t, "17:00:00", events[1].Time.String())
	assert.Equal(t, "08:00:00", events[2].Time.String())
}

func TestAttendanceRepository_Search(t *testing.T) {
	store := openTestStore(t)
	seedEmployee(t, store, "emp-1", "Ana Lestari")
	seedEmployee(t, store, "emp-2", "Budi Santoso")
	seedEmployee(t, store, "emp-3", "ÁNGEL Ruiz")
	repo := NewAttendanceRepository(store)
	ctx := context.Background()

	createEvent(t, repo, "emp-1", "2024-03-01", "08:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-2", "2024-03-01", "08:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-1", "2024-03-01", "17:00:00", attendance.KindClockOut)
	createEvent(t, repo, "emp-2", "2024-03-02", "07:30:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-3", "2024-03-02", "10:00:00", attendance.KindClockIn)
	createEvent(t, repo, "emp-1", "2024-04-01", "08:00:00", attendance.KindClockIn)

	criteria := attendance.SearchCriteria{Start: date(t, "2024-03-01"), End: date(t, "2024-03-31")}

	t.Run("window only, date then time descending", func(t *testing.T) {
		rows, err := repo.Search(ctx, criteria)
		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Equal(t, "emp-3", rows[0].EmployeeID)
		assert.Equal(t, "emp-2", rows[1].EmployeeID)
		assert.Equal(t, "17:00:00", rows[2].Time.String())
		assert.Equal(t, "Ana Lestari", rows[2].EmployeeName)
		assert.Equal(t, "emp-1@example.com", rows[2].EmployeeEmail)
		// equal date and time: later insert first
		assert.Equal(t, "emp-2", rows[3].EmployeeID)
		assert.Equal(t, "emp-1", rows[4].EmployeeID)
	})

	t.Run("status filter", func(t *testing.T) {
		kind := attendance.KindClockOut
		c := criteria
		c.Kind = &kind
		rows, err := repo.Search(ctx, c)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, attendance.KindClockOut, rows[0].Kind)
	})

	t.Run("employee filter", func(t *testing.T) {
		id := "emp-2"
		c := criteria
		c.EmployeeID = &id
		rows, err := repo.Search(ctx, c)
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("name filter is case-insensitive", func(t *testing.T) {
		name := "LESTARI"
		c := criteria
		c.NameContains = &name
		rows, err := repo.Search(ctx, c)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		for _, row := range rows {
			assert.Equal(t, "emp-1", row.EmployeeID)
		}
	})

	t.Run("name filter folds non-ascii", func(t *testing.T) {
		name := "ángel"
		c := criteria
		c.NameContains = &name
		rows, err := repo.Search(ctx, c)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "emp-3", rows[0].EmployeeID)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		name := "nobody"
		c := criteria
		c.NameContains = &name
		rows, err := repo.Search(ctx, c)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}

func TestAttendanceRepository_WithinEmployeeRollsBack(t *testing.T) {
	store := openTestStore(t)
	seedEmployee(t, store, "emp-1", "Ana")
	repo := NewAttendanceRepository(store)
	ctx := context.Background()
	day := date(t, "2024-03-01")

	boom := errors.New("boom")
	err := repo.WithinEmployee(ctx, "emp-1", func(ctx context.Context) error {
		_, err := repo.Create(ctx, attendance.Event{EmployeeID: "emp-1", Date: day, Time: attendance.NewTimeOfDay(8, 0, 0), Kind: attendance.KindClockIn})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	events, err := repo.ListByEmployeeAndDate(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAttendanceRepository_WithinEmployeeSerializes(t *testing.T) {
	store := openTestStore(t)
	seedEmployee(t, store, "emp-1", "Ana")
	repo := NewAttendanceRepository(store)
	ctx := context.Background()
	day := date(t, "2024-03-01")

	const workers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithinEmployee(ctx, "emp-1", func(ctx context.Context) error {
				events, err := repo.ListByEmployeeAndDate(ctx, "emp-1", day)
				if err != nil {
					return err
				}
				if err := attendance.CheckTransition(events, attendance.KindClockIn); err != nil {
					return err
				}
				_, err = repo.Create(ctx, attendance.Event{EmployeeID: "emp-1", Date: day, Time: attendance.NewTimeOfDay(8, 0, 0), Kind: attendance.KindClockIn})
				return err
			})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	events, err := repo.ListByEmployeeAndDate(ctx, "emp-1", day)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
