package model

import "time"

// Student is a student profile joined with its user account and class.
type Student struct {
	ID            int       `json:"-"`
	StudentID     string    `json:"student_id"`
	UserRef       int       `json:"-"`
	FirstName     string    `json:"-"`
	LastName      string    `json:"-"`
	Email         string    `json:"email"`
	RollNumber    string    `json:"roll_number"`
	ClassRef      int       `json:"-"`
	ClassName     string    `json:"class"`
	Grade         int       `json:"grade"`
	Section       string    `json:"section"`
	AdmissionDate time.Time `json:"admission_date"`
	ParentContact string    `json:"parent_contact"`
	ParentEmail   string    `json:"parent_email"`
}

// FullName joins first and last name the way reports display it.
func (s *Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
