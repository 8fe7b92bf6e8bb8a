package validator

import (
	"strings"
	"testing"
)

type rangeInput struct {
	StartDate string `json:"start_date" binding:"omitempty,isodate"`
	ExamType  string `json:"exam_type" binding:"omitempty,oneof=midterm final"`
	ClassID   string `json:"class_id" binding:"required"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        rangeInput
		wantField string
	}{
		{"valid", rangeInput{StartDate: "2024-03-01", ExamType: "final", ClassID: "C1"}, ""},
		{"empty optional fields", rangeInput{ClassID: "C1"}, ""},
		{"slashed date", rangeInput{StartDate: "03/01/2024", ClassID: "C1"}, "start_date"},
		{"impossible month", rangeInput{StartDate: "2024-13-01", ClassID: "C1"}, "start_date"},
		{"unknown exam type", rangeInput{ExamType: "oral", ClassID: "C1"}, "exam_type"},
		{"missing required", rangeInput{}, "class_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Struct(&tt.in)
			if tt.wantField == "" {
				if fields != nil {
					t.Fatalf("unexpected errors: %v", fields)
				}
				return
			}
			msg, ok := fields[tt.wantField]
			if !ok {
				t.Fatalf("fields = %v, want key %q", fields, tt.wantField)
			}
			if !strings.Contains(msg, tt.wantField) {
				t.Errorf("message %q does not name the field", msg)
			}
		})
	}
}

func TestStruct_DateMessage(t *testing.T) {
	fields := Struct(&rangeInput{StartDate: "yesterday", ClassID: "C1"})
	if got := fields["start_date"]; got != "start_date must be a date in YYYY-MM-DD format" {
		t.Errorf("message = %q", got)
	}
}
