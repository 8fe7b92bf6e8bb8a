package gateway

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

type tenantData struct {
	students   map[string]*model.Student
	attendance map[int][]model.AttendanceRecord
	exams      map[int][]model.ExamResult
	classes    map[string]*model.Class
	stats      map[int]*model.ClassStats
}

type fakeStore struct {
	mu      sync.Mutex
	data    map[string]*tenantData
	schemas []string
	err     error
	block   bool
}

func (s *fakeStore) WithTenant(ctx context.Context, tenant *model.Tenant, fn func(r repository.TenantReader) error) error {
	s.mu.Lock()
	s.schemas = append(s.schemas, tenant.SchemaName)
	d := s.data[tenant.SchemaName]
	err, block := s.err, s.block
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	if err != nil {
		return err
	}
	if d == nil {
		d = &tenantData{}
	}
	return fn(&fakeReader{d: d})
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.schemas)
}

type fakeReader struct {
	d *tenantData
}

func (r *fakeReader) StudentByID(_ context.Context, studentID string) (*model.Student, error) {
	s, ok := r.d.students[studentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeReader) AttendanceByStudent(_ context.Context, studentRef int, from, to *time.Time) ([]model.AttendanceRecord, error) {
	var out []model.AttendanceRecord
	for _, a := range r.d.attendance[studentRef] {
		if from != nil && a.Date.Before(*from) {
			continue
		}
		if to != nil && a.Date.After(*to) {
			continue
		}
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b model.AttendanceRecord) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (r *fakeReader) ExamResultsByStudent(_ context.Context, studentRef int, f repository.ExamResultFilter) ([]model.ExamResult, error) {
	var out []model.ExamResult
	for _, e := range r.d.exams[studentRef] {
		if f.Subject != "" && !strings.Contains(strings.ToLower(e.SubjectName), strings.ToLower(f.Subject)) {
			continue
		}
		if f.ExamType != "" && e.ExamType != f.ExamType {
			continue
		}
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b model.ExamResult) int { return b.ExamDate.Compare(a.ExamDate) })
	return out, nil
}

func (r *fakeReader) ClassByID(_ context.Context, classID string) (*model.Class, error) {
	c, ok := r.d.classes[classID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeReader) ClassStats(_ context.Context, classRef int) (*model.ClassStats, error) {
	if s, ok := r.d.stats[classRef]; ok {
		return s, nil
	}
	return &model.ClassStats{}, nil
}

func (r *fakeReader) UserByEmail(context.Context, string) (*model.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeReader) ChildrenOfParent(context.Context, string) ([]string, error) {
	return nil, nil
}

type fakeDirectory struct {
	mu      sync.Mutex
	tenants map[string]*model.Tenant
	lookups int
}

func (d *fakeDirectory) Lookup(_ context.Context, tenantID string) (*model.Tenant, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	t, ok := d.tenants[tenantID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(s string) *string { return &s }

// fixture builds two tenants. Tenant "greenwood" holds students S1 and S2 and
// class C1; tenant "riverside" holds a different S1.
func fixture(t *testing.T) (*Gateway, *fakeStore, *fakeDirectory) {
	t.Helper()

	greenwood := &tenantData{
		students: map[string]*model.Student{
			"S1": {ID: 1, StudentID: "S1", FirstName: "Ana", LastName: "Lima", Email: "ana@greenwood.test",
				RollNumber: "R-01", ClassRef: 7, ClassName: "Grade 10 A", Grade: 10, Section: "A",
				AdmissionDate: day("2022-08-01"), ParentContact: "555-0101", ParentEmail: "parent@greenwood.test"},
			"S2": {ID: 2, StudentID: "S2", FirstName: "Ben", LastName: "Ortiz", ClassRef: 7},
		},
		attendance: map[int][]model.AttendanceRecord{
			1: {
				{Date: day("2024-03-01"), Status: model.AttendancePresent},
				{Date: day("2024-03-02"), Status: model.AttendanceAbsent},
				{Date: day("2024-03-03"), Status: model.AttendancePresent},
			},
		},
		exams: map[int][]model.ExamResult{
			1: {
				{SubjectName: "Mathematics", ExamType: model.ExamTypeMidterm, ExamDate: day("2024-02-10"), MarksObtained: 88, MaxMarks: 100, Grade: ptr("A")},
				{SubjectName: "Mathematics", ExamType: model.ExamTypeFinal, ExamDate: day("2024-05-20"), MarksObtained: 45, MaxMarks: 50, Grade: ptr("A+")},
				{SubjectName: "Physics", ExamType: model.ExamTypeMidterm, ExamDate: day("2024-02-12"), MarksObtained: 50, MaxMarks: 100},
			},
		},
		classes: map[string]*model.Class{
			"C1": {ID: 7, ClassID: "C1", Name: "Grade 10 A", Grade: 10, Section: "A"},
		},
		stats: map[int]*model.ClassStats{
			7: {TotalStudents: 2, AverageMarks: 61.33333, TotalExams: 3},
		},
	}
	riverside := &tenantData{
		students: map[string]*model.Student{
			"S1": {ID: 1, StudentID: "S1", FirstName: "Other", LastName: "School"},
		},
	}

	store := &fakeStore{data: map[string]*tenantData{
		"school_greenwood": greenwood,
		"school_riverside": riverside,
	}}
	dir := &fakeDirectory{tenants: map[string]*model.Tenant{
		"greenwood": {TenantID: "greenwood", SchemaName: "school_greenwood", IsActive: true},
		"riverside": {TenantID: "riverside", SchemaName: "school_riverside", IsActive: true},
		"closed":    {TenantID: "closed", SchemaName: "school_closed", IsActive: false},
	}}

	catalog, err := rbac.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	gw := New(store, dir, rbac.NewPolicy(catalog, rbac.ClaimLinkage{}), time.Second, zerolog.Nop())
	return gw, store, dir
}

func student(tenant, id string) *model.Identity {
	return &model.Identity{UserID: "U-" + id, Role: model.RoleStudent, TenantID: tenant, StudentID: id}
}

func teacher(tenant string) *model.Identity {
	return &model.Identity{UserID: "U-T1", Role: model.RoleTeacher, TenantID: tenant, TeacherID: "T1"}
}

func admin(tenant string) *model.Identity {
	return &model.Identity{UserID: "U-A1", Role: model.RoleAdmin, TenantID: tenant}
}

func parent(tenant string, children ...string) *model.Identity {
	return &model.Identity{UserID: "U-P1", Role: model.RoleParent, TenantID: tenant, ChildStudentIDs: children}
}
