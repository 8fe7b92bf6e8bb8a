package gateway

import (
	"context"
	"slices"
	"strings"

	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

// OverallStatistics aggregates every exam and attendance record of a student.
type OverallStatistics struct {
	TotalExams           int     `json:"total_exams"`
	AveragePercentage    float64 `json:"average_percentage"`
	HighestScore         float64 `json:"highest_score"`
	LowestScore          float64 `json:"lowest_score"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// PerformanceAnalysis is the full performance view with insights.
type PerformanceAnalysis struct {
	StudentID              string             `json:"student_id"`
	StudentName            string             `json:"student_name"`
	OverallStatistics      OverallStatistics  `json:"overall_statistics"`
	SubjectWisePerformance map[string]float64 `json:"subject_wise_performance"`
	GradeDistribution      map[string]int     `json:"grade_distribution"`
	Insights               []string           `json:"insights"`
	Recommendations        []string           `json:"recommendations"`
}

const (
	weakSubjectBelow   = 60.0
	strongSubjectFrom  = 85.0
	lowAttendanceBelow = 75.0
	goodAttendanceFrom = 85.0
)

// PerformanceAnalysis combines all exam results and attendance of a student.
func (g *Gateway) PerformanceAnalysis(ctx context.Context, id *model.Identity, studentID string) (*PerformanceAnalysis, error) {
	target, err := g.resolveStudent(id, studentID)
	if err != nil {
		return nil, err
	}

	var analysis *PerformanceAnalysis
	err = g.inTenant(ctx, id, "performance analysis", func(ctx context.Context, r repository.TenantReader) error {
		s, err := r.StudentByID(ctx, target)
		if err != nil {
			return err
		}
		exams, err := r.ExamResultsByStudent(ctx, s.ID, repository.ExamResultFilter{})
		if err != nil {
			return err
		}
		attendance, err := r.AttendanceByStudent(ctx, s.ID, nil, nil)
		if err != nil {
			return err
		}
		analysis = analyzePerformance(exams, attendance)
		analysis.StudentID = s.StudentID
		analysis.StudentName = s.FullName()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

func analyzePerformance(exams []model.ExamResult, attendance []model.AttendanceRecord) *PerformanceAnalysis {
	var (
		sum, highest, lowest float64
		bySubject            = map[string][]float64{}
		grades               = map[string]int{}
	)
	for i := range exams {
		pct := exams[i].Percentage()
		if i == 0 || pct > highest {
			highest = pct
		}
		if i == 0 || pct < lowest {
			lowest = pct
		}
		sum += pct
		bySubject[exams[i].SubjectName] = append(bySubject[exams[i].SubjectName], pct)
		grades[exams[i].GradeOrNA()]++
	}

	var average float64
	if len(exams) > 0 {
		average = sum / float64(len(exams))
	}

	present := 0
	for _, a := range attendance {
		if a.Status == model.AttendancePresent {
			present++
		}
	}
	attendancePct := percentOf(present, len(attendance))

	subjects := make([]string, 0, len(bySubject))
	for name := range bySubject {
		subjects = append(subjects, name)
	}
	slices.Sort(subjects)

	subjectAvg := make(map[string]float64, len(subjects))
	var weak, strong []string
	for _, name := range subjects {
		avg := mean(bySubject[name])
		subjectAvg[name] = round2(avg)
		if avg < weakSubjectBelow {
			weak = append(weak, name)
		}
		if avg >= strongSubjectFrom {
			strong = append(strong, name)
		}
	}

	return &PerformanceAnalysis{
		OverallStatistics: OverallStatistics{
			TotalExams:           len(exams),
			AveragePercentage:    round2(average),
			HighestScore:         round2(highest),
			LowestScore:          round2(lowest),
			AttendancePercentage: round2(attendancePct),
		},
		SubjectWisePerformance: subjectAvg,
		GradeDistribution:      grades,
		Insights:               insights(average, attendancePct, weak, strong),
		Recommendations:        recommendations(average, attendancePct, weak),
	}
}

func insights(average, attendancePct float64, weak, strong []string) []string {
	var out []string
	switch {
	case average >= 90:
		out = append(out, "Excellent overall performance! Keep up the great work.")
	case average >= 75:
		out = append(out, "Good performance. Focus on weaker subjects to excel further.")
	case average >= 60:
		out = append(out, "Average performance. More effort needed in several subjects.")
	default:
		out = append(out, "Performance needs improvement. Consider seeking additional help.")
	}
	if attendancePct < lowAttendanceBelow {
		out = append(out, "Low attendance detected. Regular attendance is crucial for better performance.")
	}
	if len(weak) > 0 {
		out = append(out, "Need improvement in: "+strings.Join(weak, ", "))
	}
	if len(strong) > 0 {
		out = append(out, "Excelling in: "+strings.Join(strong, ", "))
	}
	return out
}

func recommendations(average, attendancePct float64, weak []string) []string {
	var out []string
	if attendancePct < goodAttendanceFrom {
		out = append(out, "Improve attendance to at least 85% for better academic outcomes")
	}
	if average < 75 {
		out = append(out, "Schedule regular study sessions and seek teacher guidance")
	}
	if len(weak) > 0 {
		out = append(out,
			"Focus extra study time on: "+strings.Join(weak, ", "),
			"Consider joining study groups or tutoring for weak subjects",
		)
	}
	if average >= 85 {
		out = append(out, "Maintain current study habits and explore advanced topics")
	}
	return append(out,
		"Set specific, measurable goals for each subject",
		"Review and revise regularly instead of last-minute cramming",
	)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
