package model

// User is a login account inside a tenant schema.
type User struct {
	ID           int    `json:"id"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsActive     bool   `json:"is_active"`

	// Resolved from the students/teachers profile tables.
	StudentID string `json:"student_id,omitempty"`
	TeacherID string `json:"teacher_id,omitempty"`
}

// FullName joins first and last name the way reports display it.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// LoginRequest is the payload for tenant user authentication.
type LoginRequest struct {
	TenantID string `json:"tenant_id" binding:"required,min=1,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Role      Role   `json:"role"`
}
