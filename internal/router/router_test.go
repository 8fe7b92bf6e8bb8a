package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/gateway"
	"github.com/stemsi/schoolbot-backend/internal/handler"
	"github.com/stemsi/schoolbot-backend/internal/middleware"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/service"
	"github.com/stemsi/schoolbot-backend/internal/tools"
)

type stubLogin struct {
	auth *service.AuthService
}

func (s *stubLogin) Login(_ context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if req.Password != "password123" {
		return nil, service.ErrInvalidCredentials
	}
	tok, _, err := s.auth.IssueToken(service.IssueParams{
		UserID: "U1", Email: req.Email, Role: model.RoleStudent, TenantID: req.TenantID, StudentID: "S1",
	})
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: tok, ExpiresIn: 3600, Role: model.RoleStudent}, nil
}

type stubData struct{}

func (stubData) StudentInfo(_ context.Context, id *model.Identity, studentID string) (*gateway.StudentInfo, error) {
	if studentID != "" && studentID != id.StudentID {
		return nil, gateway.ErrDenied
	}
	return &gateway.StudentInfo{StudentID: id.StudentID, Name: "Ana Lima"}, nil
}

func (stubData) AttendanceReport(context.Context, *model.Identity, gateway.AttendanceParams) (*gateway.AttendanceReport, error) {
	return &gateway.AttendanceReport{RecentAbsences: []string{}}, nil
}

func (stubData) ExamResults(context.Context, *model.Identity, gateway.ExamResultParams) (*gateway.ExamResultsReport, error) {
	return &gateway.ExamResultsReport{Results: []gateway.ExamRecord{}}, nil
}

func (stubData) PerformanceAnalysis(context.Context, *model.Identity, string) (*gateway.PerformanceAnalysis, error) {
	return &gateway.PerformanceAnalysis{}, nil
}

func (stubData) ClassPerformance(context.Context, *model.Identity, string) (*gateway.ClassPerformance, error) {
	return nil, gateway.ErrDenied
}

type stubCache struct{ invalidated []string }

func (s *stubCache) Invalidate(_ context.Context, tenantID string) error {
	s.invalidated = append(s.invalidated, tenantID)
	return nil
}

type testServer struct {
	engine *gin.Engine
	auth   *service.AuthService
	cache  *stubCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		GinMode:      gin.TestMode,
		JWTSecret:    "router-test-secret",
		JWTAlgorithm: "HS256",
		JWTExpiry:    time.Hour,
	}
	auth, err := service.NewAuthService(cfg)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	catalog, err := rbac.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	registry, err := tools.NewSchoolRegistry(stubData{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSchoolRegistry: %v", err)
	}
	cache := &stubCache{}

	log := zerolog.Nop()
	handlers := &Handlers{
		Auth:   handler.NewAuthHandler(&stubLogin{auth: auth}, catalog, log),
		Tool:   handler.NewToolHandler(registry, log),
		Admin:  handler.NewAdminHandler(cache, log),
		Health: handler.NewHealthHandler(nil),
	}
	engine := SetupRouter(Deps{
		Identity:    auth,
		Catalog:     catalog,
		RateLimiter: middleware.NewRateLimiter(1000, time.Minute),
		Log:         log,
	}, handlers, cfg)

	return &testServer{engine: engine, auth: auth, cache: cache}
}

func (s *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) token(t *testing.T, role model.Role) string {
	t.Helper()
	p := service.IssueParams{UserID: "U-" + role.String(), Email: "x@demo.school", Role: role, TenantID: "greenwood"}
	switch role {
	case model.RoleStudent:
		p.StudentID = "S1"
	case model.RoleTeacher:
		p.TeacherID = "T1"
	}
	tok, _, err := s.auth.IssueToken(p)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	return tok
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestLoginThenInvokeTool(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		TenantID: "greenwood", Email: "ana@greenwood.school", Password: "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", w.Code, w.Body.String())
	}
	var login model.LoginResponse
	if err := json.Unmarshal(decode(t, w).Data, &login); err != nil || login.Token == "" {
		t.Fatalf("login body = %s", w.Body.String())
	}

	w = s.do(http.MethodPost, "/api/v1/tools/"+tools.ToolStudentInfo, login.Token, map[string]string{})
	if w.Code != http.StatusOK {
		t.Fatalf("invoke status = %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
	var res tools.Result
	if err := json.Unmarshal(decode(t, w).Data, &res); err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Fatalf("result = %+v", res)
	}
}

func TestLoginRejected(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		TenantID: "greenwood", Email: "ana@greenwood.school", Password: "wrong-password",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestToolRoutesRequireIdentity(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/v1/tools", "/api/v1/me", "/api/v1/permissions"} {
		w := s.do(http.MethodGet, path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}
	w := s.do(http.MethodGet, "/api/v1/tools", "not-a-jwt", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d", w.Code)
	}
}

func TestRefusalIsRelayedWith200(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/v1/tools/"+tools.ToolStudentInfo, s.token(t, model.RoleStudent), map[string]string{"student_id": "S2"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var res tools.Result
	_ = json.Unmarshal(decode(t, w).Data, &res)
	if res.OK || res.ErrorKind != tools.KindAccessDenied {
		t.Fatalf("result = %+v", res)
	}
}

func TestUnknownToolIs404(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/api/v1/tools/drop_tables", s.token(t, model.RoleAdmin), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if env := decode(t, w); env.Error == nil || env.Error.Code != "TOOL_NOT_FOUND" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestPermissionsListing(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/v1/permissions", s.token(t, model.RoleParent), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Role        string   `json:"role"`
		Permissions []string `json:"permissions"`
	}
	if err := json.Unmarshal(decode(t, w).Data, &body); err != nil {
		t.Fatal(err)
	}
	if body.Role != "parent" || len(body.Permissions) != 4 {
		t.Fatalf("body = %+v", body)
	}
}

func TestAdminRouteRequiresManageUsers(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/admin/tenant/refresh-cache", s.token(t, model.RoleTeacher), nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("teacher status = %d", w.Code)
	}
	if len(s.cache.invalidated) != 0 {
		t.Fatal("cache touched by teacher")
	}

	w = s.do(http.MethodPost, "/api/v1/admin/tenant/refresh-cache", s.token(t, model.RoleAdmin), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin status = %d: %s", w.Code, w.Body.String())
	}
	if len(s.cache.invalidated) != 1 || s.cache.invalidated[0] != "greenwood" {
		t.Fatalf("invalidated = %v", s.cache.invalidated)
	}
}
