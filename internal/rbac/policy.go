package rbac

import (
	"slices"

	"github.com/stemsi/schoolbot-backend/internal/model"
)

// Linkage answers which students a parent identity is linked to.
// Implementations must not perform I/O; the data comes from provisioning.
type Linkage interface {
	LinkedStudents(id *model.Identity) []string
}

// ClaimLinkage reads the linkage carried in the parent's credential.
type ClaimLinkage struct{}

// LinkedStudents returns the child ids decoded from the credential.
func (ClaimLinkage) LinkedStudents(id *model.Identity) []string {
	return id.ChildStudentIDs
}

// Filters narrows a tenant-scoped query.
type Filters struct {
	StudentID string
	ClassID   string
	Subject   string
	ExamType  string
	StartDate string
	EndDate   string
}

// Policy makes the allow/deny decisions. All methods are pure.
type Policy struct {
	catalog *Catalog
	linkage Linkage
}

// NewPolicy creates a Policy. A nil linkage denies every parent lookup.
func NewPolicy(catalog *Catalog, linkage Linkage) *Policy {
	return &Policy{catalog: catalog, linkage: linkage}
}

// Catalog exposes the permission table the policy was built with.
func (p *Policy) Catalog() *Catalog {
	return p.catalog
}

// CanAccessStudent reports whether id may read data about targetStudentID.
func (p *Policy) CanAccessStudent(id *model.Identity, targetStudentID string) bool {
	if id == nil || targetStudentID == "" {
		return false
	}
	switch id.Role {
	case model.RoleAdmin:
		return true
	case model.RoleStudent:
		return id.StudentID != "" && id.StudentID == targetStudentID
	case model.RoleTeacher:
		// TODO: restrict to students enrolled in one of the teacher's classes once
		// a class roster join is defined; today every teacher sees every student.
		return true
	case model.RoleParent:
		if p.linkage == nil {
			return false
		}
		return slices.Contains(p.linkage.LinkedStudents(id), targetStudentID)
	default:
		return false
	}
}

// CanAccessClass reports whether id may read aggregate data about classID.
func (p *Policy) CanAccessClass(id *model.Identity, classID string) bool {
	if id == nil || classID == "" {
		return false
	}
	switch id.Role {
	case model.RoleAdmin:
		return true
	case model.RoleTeacher:
		// Same gap as CanAccessStudent: the class is not checked against the teacher.
		return true
	default:
		return false
	}
}

// CanViewClassStatistics is the role gate for class-wide aggregates. It runs
// before any storage access.
func (p *Policy) CanViewClassStatistics(id *model.Identity) bool {
	return id != nil && (id.Role == model.RoleAdmin || id.Role == model.RoleTeacher)
}

// ScopeFilters returns base narrowed for id. A student's StudentID is always
// overwritten with their own id, whatever the caller supplied.
func (p *Policy) ScopeFilters(id *model.Identity, base Filters) Filters {
	scoped := base
	if id != nil && id.Role == model.RoleStudent {
		scoped.StudentID = id.StudentID
	}
	return scoped
}
