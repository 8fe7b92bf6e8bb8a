package model

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of identity classifications.
type Role uint8

const (
	// RoleUnknown is the zero value and never comes out of a decoded identity.
	RoleUnknown Role = iota
	RoleAdmin
	RoleTeacher
	RoleStudent
	RoleParent

	// RoleCount sizes tables indexed by Role.
	RoleCount
)

var roleNames = [RoleCount]string{
	RoleUnknown: "",
	RoleAdmin:   "admin",
	RoleTeacher: "teacher",
	RoleStudent: "student",
	RoleParent:  "parent",
}

// AllRoles lists every defined role, in declaration order.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent, RoleParent}

// ParseRole maps a wire role string onto the enum.
func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if roleNames[r] == s {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

// String returns the wire name of the role.
func (r Role) String() string {
	if r >= RoleCount {
		return ""
	}
	return roleNames[r]
}

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	return r > RoleUnknown && r < RoleCount
}

// MarshalJSON encodes the role as its wire name.
func (r Role) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a wire name. Unknown names are rejected.
func (r *Role) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
