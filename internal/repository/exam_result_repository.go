package repository

import (
	"context"
	"strings"

	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// ExamResultFilter narrows a student's exam results. Empty fields are ignored.
type ExamResultFilter struct {
	Subject  string
	ExamType model.ExamType
}

// ExamResultRepository handles exam result data access inside a tenant schema.
type ExamResultRepository struct {
	db database.Querier
}

// NewExamResultRepository creates a new ExamResultRepository.
func NewExamResultRepository(db database.Querier) *ExamResultRepository {
	return &ExamResultRepository{db: db}
}

// ListByStudent returns a student's results joined with subject names, newest first.
// Subject matches case-insensitively on a substring of the subject name.
func (r *ExamResultRepository) ListByStudent(ctx context.Context, studentRef int, f ExamResultFilter) ([]model.ExamResult, error) {
	rows, err := r.db.Query(ctx,
		`SELECT er.id, er.result_id, er.student_id, er.subject_id, s.name, er.exam_type,
		        er.exam_date, er.marks_obtained, er.max_marks, er.grade, er.remarks
		 FROM exam_results er
		 JOIN subjects s ON s.id = er.subject_id
		 WHERE er.student_id = $1
		   AND ($2 = '' OR s.name ILIKE '%' || $2 || '%' ESCAPE '\')
		   AND ($3 = '' OR er.exam_type = $3)
		 ORDER BY er.exam_date DESC, er.id DESC`,
		studentRef, escapeLike(f.Subject), string(f.ExamType),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.ExamResult
	for rows.Next() {
		var e model.ExamResult
		if err := rows.Scan(&e.ID, &e.ResultID, &e.StudentRef, &e.SubjectRef, &e.SubjectName, &e.ExamType,
			&e.ExamDate, &e.MarksObtained, &e.MaxMarks, &e.Grade, &e.Remarks); err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
