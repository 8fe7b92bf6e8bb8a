package repository

import (
	"context"

	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// StudentRepository handles student data access inside a tenant schema.
type StudentRepository struct {
	db database.Querier
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db database.Querier) *StudentRepository {
	return &StudentRepository{db: db}
}

// GetByStudentID retrieves a student profile with its user and class.
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	s := &model.Student{}
	err := r.db.QueryRow(ctx,
		`SELECT st.id, st.student_id, st.user_id, u.first_name, u.last_name, u.email,
		        st.roll_number, st.class_id, c.name, c.grade, COALESCE(c.section, ''),
		        st.admission_date, COALESCE(st.parent_contact, ''), COALESCE(st.parent_email, '')
		 FROM students st
		 JOIN users u ON u.id = st.user_id
		 JOIN classes c ON c.id = st.class_id
		 WHERE st.student_id = $1`, studentID,
	).Scan(&s.ID, &s.StudentID, &s.UserRef, &s.FirstName, &s.LastName, &s.Email,
		&s.RollNumber, &s.ClassRef, &s.ClassName, &s.Grade, &s.Section,
		&s.AdmissionDate, &s.ParentContact, &s.ParentEmail)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// ListIDsByParentEmail returns the student ids whose recorded parent email matches.
func (r *StudentRepository) ListIDsByParentEmail(ctx context.Context, email string) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT student_id FROM students
		 WHERE lower(parent_email) = lower($1)
		 ORDER BY student_id`, email,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
