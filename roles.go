package auth

// PrincipalRole is the principal's role
type PrincipalRole = string

const (
	// RoleUser is a regular application user
	RoleUser PrincipalRole = "user"
	// RoleSeller is a marketplace seller account
	RoleSeller PrincipalRole = "seller"
)

// ParseRole validates a raw role string
func ParseRole(raw string) (PrincipalRole, bool) {
	switch raw {
	case RoleUser, RoleSeller:
		return raw, true
	default:
		return "", false
	}
}

// IsValidRole checks the role is one of the predefined valid roles
func IsValidRole(r PrincipalRole) bool {
	_, ok := ParseRole(r)
	return ok
}

// RoleMatches compares roles by exact equality. There is no hierarchy:
// a seller is not a user and a user is not a seller.
func RoleMatches(have, want PrincipalRole) bool {
	return have != "" && have == want
}
