package gateway

import (
	"context"
	"fmt"

	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

// ExamResultParams selects a student and optional subject and exam type filters.
type ExamResultParams struct {
	StudentID string
	Subject   string
	ExamType  string
}

// ExamRecord is one row of an exam results report.
type ExamRecord struct {
	ExamDate      string         `json:"exam_date"`
	Subject       string         `json:"subject"`
	ExamType      model.ExamType `json:"exam_type"`
	MarksObtained float64        `json:"marks_obtained"`
	MaxMarks      float64        `json:"max_marks"`
	Percentage    float64        `json:"percentage"`
	Grade         string         `json:"grade"`
	Remarks       *string        `json:"remarks"`
}

// ExamResultsReport lists a student's results, newest first.
type ExamResultsReport struct {
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name"`
	TotalExams  int          `json:"total_exams"`
	Results     []ExamRecord `json:"results"`
}

// ExamResults lists exam results filtered by subject name and exam type.
func (g *Gateway) ExamResults(ctx context.Context, id *model.Identity, p ExamResultParams) (*ExamResultsReport, error) {
	target, err := g.resolveStudent(id, p.StudentID)
	if err != nil {
		return nil, err
	}
	f := g.policy.ScopeFilters(id, rbac.Filters{StudentID: target, Subject: p.Subject, ExamType: p.ExamType})

	filter := repository.ExamResultFilter{Subject: f.Subject}
	if f.ExamType != "" {
		et, err := model.ParseExamType(f.ExamType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		filter.ExamType = et
	}

	var report *ExamResultsReport
	err = g.inTenant(ctx, id, "exam results", func(ctx context.Context, r repository.TenantReader) error {
		s, err := r.StudentByID(ctx, f.StudentID)
		if err != nil {
			return err
		}
		results, err := r.ExamResultsByStudent(ctx, s.ID, filter)
		if err != nil {
			return err
		}
		report = &ExamResultsReport{
			StudentID:   s.StudentID,
			StudentName: s.FullName(),
			TotalExams:  len(results),
			Results:     make([]ExamRecord, 0, len(results)),
		}
		for i := range results {
			e := &results[i]
			report.Results = append(report.Results, ExamRecord{
				ExamDate:      e.ExamDate.Format(dateLayout),
				Subject:       e.SubjectName,
				ExamType:      e.ExamType,
				MarksObtained: e.MarksObtained,
				MaxMarks:      e.MaxMarks,
				Percentage:    round2(e.Percentage()),
				Grade:         e.GradeOrNA(),
				Remarks:       e.Remarks,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
