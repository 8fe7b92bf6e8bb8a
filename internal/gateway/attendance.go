package gateway

import (
	"context"

	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

const recentWindow = 10

// AttendanceParams selects a student and an optional inclusive date range.
type AttendanceParams struct {
	StudentID string
	StartDate string
	EndDate   string
}

// Period echoes the requested range.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AttendanceReport summarizes attendance over a period.
type AttendanceReport struct {
	StudentID            string   `json:"student_id"`
	StudentName          string   `json:"student_name"`
	TotalDays            int      `json:"total_days"`
	PresentDays          int      `json:"present_days"`
	AbsentDays           int      `json:"absent_days"`
	LateDays             int      `json:"late_days"`
	ExcusedDays          int      `json:"excused_days"`
	AttendancePercentage float64  `json:"attendance_percentage"`
	RecentAbsences       []string `json:"recent_absences"`
	Period               Period   `json:"period"`
}

// AttendanceReport counts attendance by status over the requested range.
func (g *Gateway) AttendanceReport(ctx context.Context, id *model.Identity, p AttendanceParams) (*AttendanceReport, error) {
	target, err := g.resolveStudent(id, p.StudentID)
	if err != nil {
		return nil, err
	}
	f := g.policy.ScopeFilters(id, rbac.Filters{StudentID: target, StartDate: p.StartDate, EndDate: p.EndDate})

	from, err := parseDate("start_date", f.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("end_date", f.EndDate)
	if err != nil {
		return nil, err
	}

	var report *AttendanceReport
	err = g.inTenant(ctx, id, "attendance report", func(ctx context.Context, r repository.TenantReader) error {
		s, err := r.StudentByID(ctx, f.StudentID)
		if err != nil {
			return err
		}
		records, err := r.AttendanceByStudent(ctx, s.ID, from, to)
		if err != nil {
			return err
		}
		report = summarizeAttendance(records)
		report.StudentID = s.StudentID
		report.StudentName = s.FullName()
		report.Period = Period{Start: orDefault(f.StartDate, "Beginning"), End: orDefault(f.EndDate, "Current")}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// summarizeAttendance expects records ordered by date, newest first.
func summarizeAttendance(records []model.AttendanceRecord) *AttendanceReport {
	report := &AttendanceReport{
		TotalDays:      len(records),
		RecentAbsences: []string{},
	}
	for i, a := range records {
		switch a.Status {
		case model.AttendancePresent:
			report.PresentDays++
		case model.AttendanceAbsent:
			report.AbsentDays++
			if i < recentWindow {
				report.RecentAbsences = append(report.RecentAbsences, a.Date.Format(dateLayout))
			}
		case model.AttendanceLate:
			report.LateDays++
		case model.AttendanceExcused:
			report.ExcusedDays++
		}
	}
	report.AttendancePercentage = round2(percentOf(report.PresentDays, report.TotalDays))
	return report
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
