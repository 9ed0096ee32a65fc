package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	store *Store
}

func NewEmployeeRepository(store *Store) employee.EmployeeRepository {
	return &employeeRepositoryImpl{store: store}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := r.store.getQuerier(ctx)

	var (
		emp                  employee.Employee
		status               string
		createdAt, updatedAt int64
	)
	err := q.QueryRowContext(ctx,
		`SELECT id, employee_code, full_name, email, phone_number, position,
			employment_status, created_at, updated_at
		 FROM employees
		 WHERE id = ?`,
		id,
	).Scan(
		&emp.ID, &emp.EmployeeCode, &emp.FullName, &emp.Email, &emp.PhoneNumber,
		&emp.Position, &status, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, classify(fmt.Errorf("failed to get employee by id %s: %w", id, err))
	}

	emp.EmploymentStatus = employee.EmploymentStatus(status)
	emp.CreatedAt = fromMillis(createdAt)
	emp.UpdatedAt = fromMillis(updatedAt)
	return emp, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := r.store.getQuerier(ctx)

	now := time.Now().UTC()
	if newEmployee.EmploymentStatus == "" {
		newEmployee.EmploymentStatus = employee.EmploymentStatusActive
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO employees (id, employee_code, full_name, email, phone_number, position,
			employment_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newEmployee.ID, newEmployee.EmployeeCode, newEmployee.FullName, newEmployee.Email,
		newEmployee.PhoneNumber, newEmployee.Position, string(newEmployee.EmploymentStatus),
		toMillis(now), toMillis(now),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err, "employees.employee_code"):
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		case isUniqueViolation(err, "employees.email"):
			return employee.Employee{}, employee.ErrEmailExists
		}
		return employee.Employee{}, classify(fmt.Errorf("failed to create employee: %w", err))
	}

	newEmployee.CreatedAt = fromMillis(toMillis(now))
	newEmployee.UpdatedAt = newEmployee.CreatedAt
	return newEmployee, nil
}
