package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// TenantReader is the read surface available inside one tenant schema.
type TenantReader interface {
	StudentByID(ctx context.Context, studentID string) (*model.Student, error)
	AttendanceByStudent(ctx context.Context, studentRef int, from, to *time.Time) ([]model.AttendanceRecord, error)
	ExamResultsByStudent(ctx context.Context, studentRef int, f ExamResultFilter) ([]model.ExamResult, error)
	ClassByID(ctx context.Context, classID string) (*model.Class, error)
	ClassStats(ctx context.Context, classRef int) (*model.ClassStats, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	ChildrenOfParent(ctx context.Context, parentEmail string) ([]string, error)
}

// Store hands out tenant-scoped readers. There is no other path to tenant tables.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// WithTenant runs fn against tenant's schema inside a read-only transaction.
func (s *Store) WithTenant(ctx context.Context, tenant *model.Tenant, fn func(r TenantReader) error) error {
	return database.WithSchema(ctx, s.pool, tenant.SchemaName, func(q database.Querier) error {
		return fn(newScope(q))
	})
}

type scope struct {
	students   *StudentRepository
	attendance *AttendanceRepository
	exams      *ExamResultRepository
	classes    *ClassRepository
	users      *UserRepository
}

func newScope(q database.Querier) *scope {
	return &scope{
		students:   NewStudentRepository(q),
		attendance: NewAttendanceRepository(q),
		exams:      NewExamResultRepository(q),
		classes:    NewClassRepository(q),
		users:      NewUserRepository(q),
	}
}

func (s *scope) StudentByID(ctx context.Context, studentID string) (*model.Student, error) {
	return s.students.GetByStudentID(ctx, studentID)
}

func (s *scope) AttendanceByStudent(ctx context.Context, studentRef int, from, to *time.Time) ([]model.AttendanceRecord, error) {
	return s.attendance.ListByStudent(ctx, studentRef, from, to)
}

func (s *scope) ExamResultsByStudent(ctx context.Context, studentRef int, f ExamResultFilter) ([]model.ExamResult, error) {
	return s.exams.ListByStudent(ctx, studentRef, f)
}

func (s *scope) ClassByID(ctx context.Context, classID string) (*model.Class, error) {
	return s.classes.GetByClassID(ctx, classID)
}

func (s *scope) ClassStats(ctx context.Context, classRef int) (*model.ClassStats, error) {
	return s.classes.Stats(ctx, classRef)
}

func (s *scope) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s *scope) ChildrenOfParent(ctx context.Context, parentEmail string) ([]string, error) {
	return s.students.ListIDsByParentEmail(ctx, parentEmail)
}
