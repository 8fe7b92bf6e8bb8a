package model

import "time"

// Identity is the verified caller of a request, derived from a signed credential.
// It is built once per request and never mutated afterwards.
type Identity struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	TenantID   string    `json:"tenant_id"`
	SchemaName string    `json:"schema_name,omitempty"`
	StudentID  string    `json:"student_id,omitempty"` // Student only
	TeacherID  string    `json:"teacher_id,omitempty"` // Teacher only
	ExpiresAt  time.Time `json:"expires_at"`

	// ChildStudentIDs is the parent-child linkage written by provisioning. Parent only.
	ChildStudentIDs []string `json:"-"`
}
