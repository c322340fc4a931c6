package models

// Role is a user's role within an organization
type Role string

const (
	RoleTexter         Role = "TEXTER"
	RoleSupervolunteer Role = "SUPERVOLUNTEER"
	RoleAdmin          Role = "ADMIN"
	RoleOwner          Role = "OWNER"
)

var roleRank = map[Role]int{
	RoleTexter:         0,
	RoleSupervolunteer: 1,
	RoleAdmin:          2,
	RoleOwner:          3,
}

// HasRoleAtLeast reports whether role meets or exceeds min in the role ladder
func HasRoleAtLeast(role, min Role) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	m, ok := roleRank[min]
	if !ok {
		return false
	}
	return r >= m
}

// User represents a texter or supervisor. ExternalID is the identity token
// used by external batch-fulfillment callers.
type User struct {
	ID         int    `json:"id" db:"id"`
	Email      string `json:"email" db:"email"`
	ExternalID string `json:"external_id" db:"external_id"`
}
