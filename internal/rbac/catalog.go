// Package rbac holds the role permission catalog and the access policy that
// every tool call is checked against before any tenant data is read.
package rbac

import (
	"fmt"
	"slices"

	"github.com/stemsi/schoolbot-backend/internal/model"
)

// rolePermissions is the only place a role is granted a permission.
var rolePermissions = [model.RoleCount][]model.Permission{
	model.RoleUnknown: nil,
	model.RoleAdmin: {
		model.PermissionViewAllStudents,
		model.PermissionViewAllTeachers,
		model.PermissionViewAllClasses,
		model.PermissionViewAllAttendance,
		model.PermissionViewAllExams,
		model.PermissionManageUsers,
		model.PermissionManageClasses,
		model.PermissionManageSubjects,
		model.PermissionGenerateReports,
		model.PermissionViewAnalytics,
	},
	model.RoleTeacher: {
		model.PermissionViewOwnClasses,
		model.PermissionViewClassStudents,
		model.PermissionMarkAttendance,
		model.PermissionEnterGrades,
		model.PermissionViewStudentPerformance,
		model.PermissionGenerateClassReports,
	},
	model.RoleStudent: {
		model.PermissionViewOwnData,
		model.PermissionViewOwnAttendance,
		model.PermissionViewOwnGrades,
		model.PermissionViewOwnPerformance,
	},
	model.RoleParent: {
		model.PermissionViewChildData,
		model.PermissionViewChildAttendance,
		model.PermissionViewChildGrades,
		model.PermissionViewChildPerformance,
	},
}

// Catalog is the immutable role → permission table. Safe for concurrent use.
type Catalog struct {
	sets [model.RoleCount]map[model.Permission]struct{}
}

// NewCatalog builds the catalog from the static table and fails if any role
// is missing a row or a row names an unknown permission.
func NewCatalog() (*Catalog, error) {
	return newCatalog(rolePermissions)
}

func newCatalog(table [model.RoleCount][]model.Permission) (*Catalog, error) {
	c := &Catalog{}
	for _, role := range model.AllRoles {
		perms := table[role]
		if len(perms) == 0 {
			return nil, fmt.Errorf("rbac: role %q has no permission row", role)
		}
		set := make(map[model.Permission]struct{}, len(perms))
		for _, p := range perms {
			if !slices.Contains(model.AllPermissions, p) {
				return nil, fmt.Errorf("rbac: role %q lists unknown permission %q", role, p)
			}
			set[p] = struct{}{}
		}
		c.sets[role] = set
	}
	return c, nil
}

// PermissionsFor returns a sorted copy of the permissions granted to role.
// Undefined roles get an empty slice.
func (c *Catalog) PermissionsFor(role model.Role) []model.Permission {
	if !role.Valid() {
		return []model.Permission{}
	}
	out := make([]model.Permission, 0, len(c.sets[role]))
	for p := range c.sets[role] {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// HasPermission reports whether role is granted perm.
func (c *Catalog) HasPermission(role model.Role, perm model.Permission) bool {
	if !role.Valid() {
		return false
	}
	_, ok := c.sets[role][perm]
	return ok
}
