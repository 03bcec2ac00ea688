package postgres

import (
	"context"

	"github.com/frahmantamala/hr-payroll/internal"
	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
	"gorm.io/gorm/clause"
)

type PayrollRepository struct {
	store   *store.Store
	reports *store.Repository[payrollDatamodel.PayrollReport]
	details *store.Repository[payrollDatamodel.PayrollReportDetail]
}

func NewPayrollRepository(s *store.Store) payroll.RepositoryAPI {
	return &PayrollRepository{
		store:   s,
		reports: store.NewRepository[payrollDatamodel.PayrollReport](s),
		details: store.NewRepository[payrollDatamodel.PayrollReportDetail](s),
	}
}

func (r *PayrollRepository) ReportExists(ctx context.Context, p period.Period) (bool, error) {
	return r.reports.Exists(ctx, store.Where("month = ? AND year = ?", p.Month, p.Year))
}

func (r *PayrollRepository) CreateReport(ctx context.Context, report *payrollDatamodel.PayrollReport) error {
	if err := r.reports.Create(ctx, report); err != nil {
		if store.IsDuplicate(err) {
			return internal.ErrPeriodAlreadyGenerated.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *PayrollRepository) UpdateReportStatus(ctx context.Context, reportID int64, status payrollDatamodel.ReportStatus, detailCount int) error {
	n, err := r.reports.UpdateMany(ctx,
		map[string]interface{}{"status": status, "detail_count": detailCount},
		store.Where("id = ?", reportID),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return internal.ErrPayrollReportNotFound
	}
	return nil
}

func (r *PayrollRepository) GetReportByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollReport, error) {
	report, err := r.reports.FindByID(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrPayrollReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (r *PayrollRepository) ListReports(ctx context.Context, page store.Page) ([]*payrollDatamodel.PayrollReport, int64, error) {
	total, err := r.reports.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	reports, err := r.reports.FindMany(ctx, store.OrderBy("year DESC, month DESC"), page.Scope())
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *PayrollRepository) FindDetail(ctx context.Context, reportID, employeeID int64) (*payrollDatamodel.PayrollReportDetail, error) {
	detail, err := r.details.FindOne(ctx, store.Where("payroll_report_id = ? AND employee_id = ?", reportID, employeeID))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return detail, nil
}

func (r *PayrollRepository) CreateDetail(ctx context.Context, detail *payrollDatamodel.PayrollReportDetail) error {
	return r.store.Conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payroll_report_id"}, {Name: "employee_id"}},
			DoNothing: true,
		}).
		Create(detail).Error
}

// DeleteReport removes the report and its details.
func (r *PayrollRepository) DeleteReport(ctx context.Context, reportID int64) error {
	return r.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := r.details.Delete(ctx, store.Where("payroll_report_id = ?", reportID)); err != nil {
			return err
		}
		n, err := r.reports.Delete(ctx, store.Where("id = ?", reportID))
		if err != nil {
			return err
		}
		if n == 0 {
			return internal.ErrPayrollReportNotFound
		}
		return nil
	})
}
