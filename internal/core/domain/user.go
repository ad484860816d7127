package domain

// UserRole is the coarse authorization level of an application user.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleStaff UserRole = "STAFF"
)

// User is an application account. PasswordHash is a bcrypt hash and never
// leaves the persistence/service boundary.
type User struct {
	UserID       string   `json:"userID"`
	Name         string   `json:"name"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
}
