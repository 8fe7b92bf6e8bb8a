package model

import (
	"fmt"
	"time"
)

// ExamType represents the kind of assessment.
type ExamType string

const (
	ExamTypeMidterm    ExamType = "midterm"
	ExamTypeFinal      ExamType = "final"
	ExamTypeQuiz       ExamType = "quiz"
	ExamTypeAssignment ExamType = "assignment"
	ExamTypeProject    ExamType = "project"
)

// AllExamTypes lists the accepted exam types.
var AllExamTypes = []ExamType{
	ExamTypeMidterm,
	ExamTypeFinal,
	ExamTypeQuiz,
	ExamTypeAssignment,
	ExamTypeProject,
}

// ParseExamType validates an exam type filter value.
func ParseExamType(s string) (ExamType, error) {
	for _, t := range AllExamTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown exam type %q", s)
}

// ExamResult is one graded assessment of a student, joined with its subject name.
type ExamResult struct {
	ID            int       `json:"-"`
	ResultID      string    `json:"result_id"`
	StudentRef    int       `json:"-"`
	SubjectRef    int       `json:"-"`
	SubjectName   string    `json:"subject"`
	ExamType      ExamType  `json:"exam_type"`
	ExamDate      time.Time `json:"exam_date"`
	MarksObtained float64   `json:"marks_obtained"`
	MaxMarks      float64   `json:"max_marks"`
	Grade         *string   `json:"grade"`
	Remarks       *string   `json:"remarks"`
}

// Percentage is derived, never stored. A zero max yields 0.
func (r *ExamResult) Percentage() float64 {
	if r.MaxMarks <= 0 {
		return 0
	}
	return r.MarksObtained / r.MaxMarks * 100
}

// GradeOrNA returns the letter grade, or "N/A" when none was recorded.
func (r *ExamResult) GradeOrNA() string {
	if r.Grade == nil || *r.Grade == "" {
		return "N/A"
	}
	return *r.Grade
}
