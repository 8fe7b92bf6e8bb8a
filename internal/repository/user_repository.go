package repository

import (
	"context"

	"github.com/stemsi/schoolbot-backend/internal/database"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// UserRepository handles login account lookups inside a tenant schema.
type UserRepository struct {
	db database.Querier
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db database.Querier) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail retrieves a user by email (case-insensitive) with its profile ids.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := r.db.QueryRow(ctx,
		`SELECT u.id, u.user_id, u.email, u.password_hash, u.role, u.first_name, u.last_name, u.is_active,
		        COALESCE(st.student_id, ''), COALESCE(t.teacher_id, '')
		 FROM users u
		 LEFT JOIN students st ON st.user_id = u.id
		 LEFT JOIN teachers t ON t.user_id = u.id
		 WHERE lower(u.email) = lower($1)`, email,
	).Scan(&u.ID, &u.UserID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName, &u.IsActive,
		&u.StudentID, &u.TeacherID)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
