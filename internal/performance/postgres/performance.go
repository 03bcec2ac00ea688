package postgres

import (
	"context"

	performanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/performance"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/performance"
	"gorm.io/gorm/clause"
)

type PerformanceRepository struct {
	store   *store.Store
	reports *store.Repository[performanceDatamodel.PerformanceReport]
	details *store.Repository[performanceDatamodel.PerformanceReportDetail]
}

func NewPerformanceRepository(s *store.Store) performance.RepositoryAPI {
	return &PerformanceRepository{
		store:   s,
		reports: store.NewRepository[performanceDatamodel.PerformanceReport](s),
		details: store.NewRepository[performanceDatamodel.PerformanceReportDetail](s),
	}
}

func (r *PerformanceRepository) FindDetail(ctx context.Context, employeeID int64, p period.Period) (*performanceDatamodel.PerformanceReportDetail, error) {
	detail, err := r.details.FindOne(ctx,
		store.Where("employee_id = ?", employeeID),
		store.Where("performance_report_id IN (?)",
			r.store.Conn(ctx).Model(&performanceDatamodel.PerformanceReport{}).
				Select("id").
				Where("month = ? AND year = ?", p.Month, p.Year)),
	)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return detail, nil
}

func (r *PerformanceRepository) UpsertScore(ctx context.Context, employeeID int64, p period.Period, score float64) (*performanceDatamodel.PerformanceReportDetail, error) {
	var detail *performanceDatamodel.PerformanceReportDetail

	err := r.store.WithTx(ctx, func(ctx context.Context) error {
		report := performanceDatamodel.PerformanceReport{Month: p.Month, Year: p.Year}
		if err := r.store.Conn(ctx).
			Where(performanceDatamodel.PerformanceReport{Month: p.Month, Year: p.Year}).
			FirstOrCreate(&report).Error; err != nil {
			return err
		}

		row := &performanceDatamodel.PerformanceReportDetail{
			PerformanceReportID: report.ID,
			EmployeeID:          employeeID,
			AverageScore:        &score,
		}
		if err := r.store.Conn(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "performance_report_id"}, {Name: "employee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"average_score", "updated_at"}),
		}).Create(row).Error; err != nil {
			return err
		}

		found, err := r.details.FindOne(ctx,
			store.Where("performance_report_id = ? AND employee_id = ?", report.ID, employeeID))
		if err != nil {
			return err
		}
		detail = found
		return nil
	})
	return detail, err
}
