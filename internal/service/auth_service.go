package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// Identity decode errors. They are fatal to the request and surface as 401.
var (
	ErrMalformed        = errors.New("credential is malformed")
	ErrInvalidSignature = errors.New("credential signature is invalid")
	ErrExpired          = errors.New("credential has expired")
)

// ErrInvalidCredentials is returned by password checks.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims extends JWT standard claims with the identity fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID          string   `json:"user_id"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	TenantID        string   `json:"tenant_id"`
	SchemaName      string   `json:"schema_name,omitempty"`
	StudentID       string   `json:"student_id,omitempty"`        // Student only
	TeacherID       string   `json:"teacher_id,omitempty"`        // Teacher only
	ChildStudentIDs []string `json:"child_student_ids,omitempty"` // Parent only
}

// IssueParams describes the identity a new credential is signed for.
type IssueParams struct {
	UserID          string
	Email           string
	Role            model.Role
	TenantID        string
	SchemaName      string
	StudentID       string
	TeacherID       string
	ChildStudentIDs []string
	// TTL overrides the configured expiry when positive.
	TTL time.Duration
}

// AuthService signs and decodes identity credentials.
type AuthService struct {
	cfg    *config.Config
	method jwt.SigningMethod
	now    func() time.Time
}

// NewAuthService creates a new AuthService for the configured HMAC algorithm.
func NewAuthService(cfg *config.Config) (*AuthService, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.JWTAlgorithm)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	return &AuthService{cfg: cfg, method: method, now: time.Now}, nil
}

// IssueToken signs a credential for p and returns it with its expiry.
func (s *AuthService) IssueToken(p IssueParams) (string, time.Time, error) {
	if !p.Role.Valid() {
		return "", time.Time{}, fmt.Errorf("issue token: invalid role")
	}

	ttl := s.cfg.JWTExpiry
	if p.TTL > 0 {
		ttl = p.TTL
	}
	now := s.now()
	exp := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID:     p.UserID,
		Email:      p.Email,
		Role:       p.Role.String(),
		TenantID:   p.TenantID,
		SchemaName: p.SchemaName,
	}
	switch p.Role {
	case model.RoleStudent:
		if p.StudentID == "" {
			return "", time.Time{}, fmt.Errorf("issue token: student_id required for student role")
		}
		claims.StudentID = p.StudentID
	case model.RoleTeacher:
		if p.TeacherID == "" {
			return "", time.Time{}, fmt.Errorf("issue token: teacher_id required for teacher role")
		}
		claims.TeacherID = p.TeacherID
	case model.RoleParent:
		claims.ChildStudentIDs = p.ChildStudentIDs
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Decode verifies a credential and returns the identity it carries.
// It returns ErrInvalidSignature, ErrExpired or ErrMalformed on failure.
func (s *AuthService) Decode(credential string) (*model.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(credential, claims,
		func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}

	if claims.UserID == "" || claims.Email == "" || claims.Role == "" || claims.TenantID == "" {
		return nil, fmt.Errorf("%w: missing required claim", ErrMalformed)
	}
	role, err := model.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id := &model.Identity{
		UserID:     claims.UserID,
		Email:      claims.Email,
		Role:       role,
		TenantID:   claims.TenantID,
		SchemaName: claims.SchemaName,
		ExpiresAt:  claims.ExpiresAt.Time,
	}

	// Role-bound ids only survive for the role they belong to.
	switch role {
	case model.RoleStudent:
		if claims.StudentID == "" {
			return nil, fmt.Errorf("%w: student_id required for student role", ErrMalformed)
		}
		id.StudentID = claims.StudentID
	case model.RoleTeacher:
		if claims.TeacherID == "" {
			return nil, fmt.Errorf("%w: teacher_id required for teacher role", ErrMalformed)
		}
		id.TeacherID = claims.TeacherID
	case model.RoleParent:
		id.ChildStudentIDs = append([]string(nil), claims.ChildStudentIDs...)
	}

	return id, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
