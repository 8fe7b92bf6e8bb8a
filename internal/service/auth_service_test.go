package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

const testSecret = "unit-test-secret"

func newTestAuth(t *testing.T, now time.Time) *AuthService {
	t.Helper()
	svc, err := NewAuthService(&config.Config{
		JWTSecret:    testSecret,
		JWTAlgorithm: "HS256",
		JWTExpiry:    time.Hour,
		BcryptCost:   4,
	})
	if err != nil {
		t.Fatalf("new auth service: %v", err)
	}
	svc.now = func() time.Time { return now }
	return svc
}

func signMap(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func baseClaims(exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"user_id":    "U1",
		"email":      "s1@demo.school",
		"role":       "student",
		"tenant_id":  "T1",
		"student_id": "S1",
		"exp":        exp.Unix(),
	}
}

func TestIssueAndDecodeRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := newTestAuth(t, now)

	tok, exp, err := svc.IssueToken(IssueParams{
		UserID:    "U1",
		Email:     "s1@demo.school",
		Role:      model.RoleStudent,
		TenantID:  "T1",
		StudentID: "S1",
		TeacherID: "should-be-dropped",
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Fatalf("exp = %v", exp)
	}

	id, err := svc.Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if id.Role != model.RoleStudent || id.StudentID != "S1" || id.TenantID != "T1" || id.UserID != "U1" {
		t.Fatalf("unexpected identity %+v", id)
	}
	if id.TeacherID != "" {
		t.Fatalf("teacher id leaked into student identity: %q", id.TeacherID)
	}
	if !id.ExpiresAt.Equal(exp) {
		t.Fatalf("ExpiresAt = %v, want %v", id.ExpiresAt, exp)
	}
}

func TestDecodeParentCarriesLinkage(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := newTestAuth(t, now)

	tok, _, err := svc.IssueToken(IssueParams{
		UserID: "P1", Email: "p@demo.school", Role: model.RoleParent, TenantID: "T1",
		ChildStudentIDs: []string{"S1", "S2"},
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := svc.Decode(tok)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(id.ChildStudentIDs) != 2 || id.ChildStudentIDs[1] != "S2" {
		t.Fatalf("children = %v", id.ChildStudentIDs)
	}
}

func TestDecodeInvalidSignature(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := newTestAuth(t, now)

	tests := map[string]string{
		"wrong secret":       signMap(t, jwt.SigningMethodHS256, "other-secret", baseClaims(now.Add(time.Hour))),
		"wrong algorithm":    signMap(t, jwt.SigningMethodHS512, testSecret, baseClaims(now.Add(time.Hour))),
		"expired and forged": signMap(t, jwt.SigningMethodHS256, "other-secret", baseClaims(now.Add(-time.Hour))),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Decode(tok)
			if !errors.Is(err, ErrInvalidSignature) {
				t.Fatalf("err = %v, want ErrInvalidSignature", err)
			}
		})
	}
}

func TestDecodeExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := newTestAuth(t, now)

	for name, exp := range map[string]time.Time{
		"in the past": now.Add(-time.Minute),
		"exactly now": now,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Decode(signMap(t, jwt.SigningMethodHS256, testSecret, baseClaims(exp)))
			if !errors.Is(err, ErrExpired) {
				t.Fatalf("err = %v, want ErrExpired", err)
			}
		})
	}

	_, err := svc.Decode(signMap(t, jwt.SigningMethodHS256, testSecret, baseClaims(now.Add(time.Second))))
	if err != nil {
		t.Fatalf("token expiring in one second should decode, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := newTestAuth(t, now)
	exp := now.Add(time.Hour)

	mutate := func(f func(c jwt.MapClaims)) string {
		c := baseClaims(exp)
		f(c)
		return signMap(t, jwt.SigningMethodHS256, testSecret, c)
	}

	tests := map[string]string{
		"garbage":            "not-a-token",
		"missing user_id":    mutate(func(c jwt.MapClaims) { delete(c, "user_id") }),
		"missing email":      mutate(func(c jwt.MapClaims) { delete(c, "email") }),
		"missing role":       mutate(func(c jwt.MapClaims) { delete(c, "role") }),
		"missing tenant_id":  mutate(func(c jwt.MapClaims) { delete(c, "tenant_id") }),
		"missing exp":        mutate(func(c jwt.MapClaims) { delete(c, "exp") }),
		"numeric user_id":    mutate(func(c jwt.MapClaims) { c["user_id"] = 42 }),
		"string exp":         mutate(func(c jwt.MapClaims) { c["exp"] = "tomorrow" }),
		"unknown role":       mutate(func(c jwt.MapClaims) { c["role"] = "principal" }),
		"student without id": mutate(func(c jwt.MapClaims) { delete(c, "student_id") }),
		"teacher without id": mutate(func(c jwt.MapClaims) { c["role"] = "teacher" }),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Decode(tok)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestNewAuthServiceRejectsNonHMAC(t *testing.T) {
	_, err := NewAuthService(&config.Config{JWTSecret: "x", JWTAlgorithm: "RS256"})
	if err == nil {
		t.Fatal("expected error for RS256")
	}
	_, err = NewAuthService(&config.Config{JWTSecret: "", JWTAlgorithm: "HS256"})
	if err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	svc := newTestAuth(t, time.Now())
	hash, err := svc.HashPassword("student123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := svc.CheckPassword(hash, "student123"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v", err)
	}
}
