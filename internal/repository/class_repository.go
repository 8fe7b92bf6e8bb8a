package repository

import (
	"context"

	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// ClassRepository handles class data access inside a tenant schema.
type ClassRepository struct {
	db database.Querier
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(db database.Querier) *ClassRepository {
	return &ClassRepository{db: db}
}

// GetByClassID retrieves a class by its public identifier.
func (r *ClassRepository) GetByClassID(ctx context.Context, classID string) (*model.Class, error) {
	c := &model.Class{}
	err := r.db.QueryRow(ctx,
		`SELECT id, class_id, name, grade, COALESCE(section, ''), academic_year
		 FROM classes WHERE class_id = $1`, classID,
	).Scan(&c.ID, &c.ClassID, &c.Name, &c.Grade, &c.Section, &c.AcademicYear)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// Stats aggregates student count and exam marks for a class.
func (r *ClassRepository) Stats(ctx context.Context, classRef int) (*model.ClassStats, error) {
	s := &model.ClassStats{}
	err := r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students WHERE class_id = $1),
			COALESCE(AVG(er.marks_obtained), 0)::float8,
			COUNT(er.id)
		 FROM exam_results er
		 JOIN students st ON st.id = er.student_id
		 WHERE st.class_id = $1`, classRef,
	).Scan(&s.TotalStudents, &s.AverageMarks, &s.TotalExams)
	if err != nil {
		return nil, err
	}
	return s, nil
}
