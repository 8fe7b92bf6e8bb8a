package gateway

import (
	"context"

	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

// StudentInfo is the profile view of one student.
type StudentInfo struct {
	StudentID     string `json:"student_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	RollNumber    string `json:"roll_number"`
	Class         string `json:"class"`
	Grade         int    `json:"grade"`
	Section       string `json:"section"`
	AdmissionDate string `json:"admission_date"`
	ParentContact string `json:"parent_contact"`
	ParentEmail   string `json:"parent_email"`
}

// StudentInfo returns the profile of studentID, or of the caller when a student
// leaves it empty.
func (g *Gateway) StudentInfo(ctx context.Context, id *model.Identity, studentID string) (*StudentInfo, error) {
	target, err := g.resolveStudent(id, studentID)
	if err != nil {
		return nil, err
	}

	var info *StudentInfo
	err = g.inTenant(ctx, id, "student info", func(ctx context.Context, r repository.TenantReader) error {
		s, err := r.StudentByID(ctx, target)
		if err != nil {
			return err
		}
		info = &StudentInfo{
			StudentID:     s.StudentID,
			Name:          s.FullName(),
			Email:         s.Email,
			RollNumber:    s.RollNumber,
			Class:         s.ClassName,
			Grade:         s.Grade,
			Section:       s.Section,
			AdmissionDate: s.AdmissionDate.Format(dateLayout),
			ParentContact: s.ParentContact,
			ParentEmail:   s.ParentEmail,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}
