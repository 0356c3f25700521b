package domain

import "strings"

// Role identifies which identity store an account lives in. It is carried in
// every access token.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// ParseRole converts s into a Role. The empty string is not a role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleClient:
		return RoleClient, nil
	case RoleProvider:
		return RoleProvider, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleProvider
}

func (r Role) String() string {
	return string(r)
}
