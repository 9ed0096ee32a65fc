package user

type Role string

const (
	RoleAdmin    Role = "admin"    // Attendance administrator - sees every employee
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	_, ok := RolePermissions[r]
	return ok
}
