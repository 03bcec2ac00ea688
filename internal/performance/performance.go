package performance

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/hr-payroll/internal"
	performanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/performance"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
)

// Reader is the read contract payroll depends on. FindDetail returns nil, nil
// when no score has been computed for the employee in that period.
type Reader interface {
	FindDetail(ctx context.Context, employeeID int64, p period.Period) (*performanceDatamodel.PerformanceReportDetail, error)
}

type RepositoryAPI interface {
	Reader
	// UpsertScore creates the period's report if needed and writes the score.
	UpsertScore(ctx context.Context, employeeID int64, p period.Period, score float64) (*performanceDatamodel.PerformanceReportDetail, error)
}

// Recorder writes aggregated review scores. Review collection itself lives
// outside this service.
type Recorder struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewRecorder(repo RepositoryAPI, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) RecordAverageScore(ctx context.Context, employeeID int64, p period.Period, score float64) (*performanceDatamodel.PerformanceReportDetail, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if score < 0 {
		return nil, internal.NewValidationFieldError("average_score", "average score must not be negative", internal.ErrCodeValidationFailed)
	}

	detail, err := r.repo.UpsertScore(ctx, employeeID, p, score)
	if err != nil {
		r.logger.Error("failed to record performance score", "employee_id", employeeID, "period", p.String(), "error", err)
		return nil, err
	}

	r.logger.Info("performance score recorded", "employee_id", employeeID, "period", p.String(), "average_score", score)
	return detail, nil
}
