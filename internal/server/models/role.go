package models

import "github.com/dmitrijs2005/funrun/internal/common"

// Role is the closed set of account roles. It decides which site sections
// a session may enter.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleRunner  Role = "Runner"
	RoleMarshal Role = "Marshal"
	RoleGuest   Role = "Guest"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleAdmin, RoleRunner, RoleMarshal, RoleGuest}

// Valid reports whether r is one of the known roles. Matching is exact.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleRunner, RoleMarshal, RoleGuest:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts s into a Role, failing with common.ErrInvalidRole for
// anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", common.ErrInvalidRole
	}
	return r, nil
}
