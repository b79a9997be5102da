package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// MinAge is the minimum accepted age at signup.
const MinAge = 13

// User models a registered account. PasswordHash never leaves the API:
// it is excluded from JSON serialization entirely.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Age          int       `json:"age"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the recognised roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// TokenClaims is the identity snapshot embedded in a signed token at
// issuance time. It is not refreshed against current database state.
type TokenClaims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the claims carry the admin role.
func (c TokenClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// UserIndicators is the aggregate report over all registered users.
type UserIndicators struct {
	TotalUsers       int            `json:"total_users"`
	AverageAge       float64        `json:"average_age"`
	RoleDistribution map[string]int `json:"role_distribution"`
	Youngest         *User          `json:"youngest,omitempty"`
	Oldest           *User          `json:"oldest,omitempty"`
}
