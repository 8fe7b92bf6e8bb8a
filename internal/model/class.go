package model

// Class represents a school class group inside a tenant.
type Class struct {
	ID           int    `json:"-"`
	ClassID      string `json:"class_id"`
	Name         string `json:"name"`
	Grade        int    `json:"grade"`
	Section      string `json:"section"`
	AcademicYear string `json:"academic_year"`
}

// ClassStats holds the aggregate exam figures for one class.
type ClassStats struct {
	TotalStudents int
	AverageMarks  float64
	TotalExams    int
}
