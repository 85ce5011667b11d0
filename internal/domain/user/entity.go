package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Manages workers, entries and audits
	RoleStaff Role = "staff" // Records and reads entries
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user may run administrative operations
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
