// Command issue-token signs a development identity token with the configured
// secret, for exercising the API without a login round trip.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/service"
	"golang.org/x/term"
)

func main() {
	var (
		userID, email, role, tenantID, schema string
		studentID, teacherID, children       string
		ttl                                  time.Duration
		promptSecret                         bool
	)
	flag.StringVar(&userID, "user", "", "User id (required)")
	flag.StringVar(&email, "email", "", "Email (required)")
	flag.StringVar(&role, "role", "", "Role: admin, teacher, student or parent (required)")
	flag.StringVar(&tenantID, "tenant", "", "Tenant id (required)")
	flag.StringVar(&schema, "schema", "", "Tenant schema name")
	flag.StringVar(&studentID, "student", "", "Student id for the student role")
	flag.StringVar(&teacherID, "teacher", "", "Teacher id for the teacher role")
	flag.StringVar(&children, "children", "", "Comma-separated student ids linked to a parent")
	flag.DurationVar(&ttl, "ttl", 0, "Token lifetime (default JWT_EXPIRY_MINUTES)")
	flag.BoolVar(&promptSecret, "prompt-secret", false, "Read the signing secret from the terminal instead of JWT_SECRET")
	flag.Parse()

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	if userID == "" || email == "" || role == "" || tenantID == "" {
		flag.Usage()
		os.Exit(2)
	}
	r, err := model.ParseRole(role)
	if err != nil {
		fail(err)
	}

	if promptSecret {
		fmt.Fprint(os.Stderr, "Signing secret: ")
		secret, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			fail(fmt.Errorf("read secret: %w", err))
		}
		cfg.JWTSecret = strings.TrimSpace(string(secret))
	}

	authService, err := service.NewAuthService(cfg)
	if err != nil {
		fail(err)
	}

	var childIDs []string
	for _, id := range strings.Split(children, ",") {
		if id = strings.TrimSpace(id); id != "" {
			childIDs = append(childIDs, id)
		}
	}

	token, exp, err := authService.IssueToken(service.IssueParams{
		UserID:          userID,
		Email:           email,
		Role:            r,
		TenantID:        tenantID,
		SchemaName:      schema,
		StudentID:       studentID,
		TeacherID:       teacherID,
		ChildStudentIDs: childIDs,
		TTL:             ttl,
	})
	if err != nil {
		fail(err)
	}

	fmt.Fprintf(os.Stderr, "Token for %s (%s) expires %s\n", userID, r, exp.Format(time.RFC3339))
	fmt.Println(token)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
