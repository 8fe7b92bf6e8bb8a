package gateway

import (
	"context"
	"fmt"

	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/repository"
)

// ClassPerformance is the class-wide exam aggregate.
type ClassPerformance struct {
	ClassID                 string  `json:"class_id"`
	ClassName               string  `json:"class_name"`
	TotalStudents           int     `json:"total_students"`
	AverageClassPerformance float64 `json:"average_class_performance"`
	TotalExamsConducted     int     `json:"total_exams_conducted"`
}

// ClassPerformance returns aggregate figures for classID. Only admins and
// teachers pass; everyone else is refused before any storage access.
func (g *Gateway) ClassPerformance(ctx context.Context, id *model.Identity, classID string) (*ClassPerformance, error) {
	if !g.policy.CanViewClassStatistics(id) {
		return nil, ErrDenied
	}
	if classID == "" {
		return nil, fmt.Errorf("%w: class_id", ErrMissingParameter)
	}
	if !g.policy.CanAccessClass(id, classID) {
		return nil, ErrDenied
	}

	var perf *ClassPerformance
	err := g.inTenant(ctx, id, "class performance", func(ctx context.Context, r repository.TenantReader) error {
		c, err := r.ClassByID(ctx, classID)
		if err != nil {
			return err
		}
		stats, err := r.ClassStats(ctx, c.ID)
		if err != nil {
			return err
		}
		perf = &ClassPerformance{
			ClassID:                 c.ClassID,
			ClassName:               c.Name,
			TotalStudents:           stats.TotalStudents,
			AverageClassPerformance: round2(stats.AverageMarks),
			TotalExamsConducted:     stats.TotalExams,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return perf, nil
}
