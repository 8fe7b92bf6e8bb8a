package repository

import (
	"context"
	"time"

	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// AttendanceRepository handles attendance data access inside a tenant schema.
type AttendanceRepository struct {
	db database.Querier
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db database.Querier) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByStudent returns a student's records, newest first. Nil bounds are open.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentRef int, from, to *time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, attendance_id, student_id, date, status
		 FROM attendance
		 WHERE student_id = $1
		   AND ($2::date IS NULL OR date >= $2::date)
		   AND ($3::date IS NULL OR date <= $3::date)
		 ORDER BY date DESC, id DESC`,
		studentRef, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.AttendanceRecord
	for rows.Next() {
		var a model.AttendanceRecord
		if err := rows.Scan(&a.ID, &a.AttendanceID, &a.StudentRef, &a.Date, &a.Status); err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
