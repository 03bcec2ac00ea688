package postgres

import (
	"context"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"gorm.io/gorm/clause"
)

type AttendanceRepository struct {
	store   *store.Store
	reports *store.Repository[attendanceDatamodel.AttendanceReport]
	details *store.Repository[attendanceDatamodel.AttendanceReportDetail]
}

func NewAttendanceRepository(s *store.Store) attendance.RepositoryAPI {
	return &AttendanceRepository{
		store:   s,
		reports: store.NewRepository[attendanceDatamodel.AttendanceReport](s),
		details: store.NewRepository[attendanceDatamodel.AttendanceReportDetail](s),
	}
}

func byPeriod(p period.Period) store.Scope {
	return store.Where("month = ? AND year = ?", p.Month, p.Year)
}

func (r *AttendanceRepository) ReportExists(ctx context.Context, p period.Period) (bool, error) {
	return r.reports.Exists(ctx, byPeriod(p))
}

func (r *AttendanceRepository) CreateReport(ctx context.Context, report *attendanceDatamodel.AttendanceReport) error {
	if err := r.reports.Create(ctx, report); err != nil {
		if store.IsDuplicate(err) {
			return internal.ErrPeriodAlreadyGenerated.WithCause(err)
		}
		return err
	}
	return nil
}

func (r *AttendanceRepository) FindReport(ctx context.Context, p period.Period) (*attendanceDatamodel.AttendanceReport, error) {
	report, err := r.reports.FindOne(ctx, byPeriod(p))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, internal.ErrAttendanceReportNotFound
		}
		return nil, err
	}
	return report, nil
}

func (r *AttendanceRepository) FindDetail(ctx context.Context, reportID, employeeID int64) (*attendanceDatamodel.AttendanceReportDetail, error) {
	detail, err := r.details.FindOne(ctx, store.Where("attendance_report_id = ? AND employee_id = ?", reportID, employeeID))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return detail, nil
}

func (r *AttendanceRepository) FindDetailForPeriod(ctx context.Context, employeeID int64, p period.Period) (*attendanceDatamodel.AttendanceReportDetail, error) {
	detail, err := r.details.FindOne(ctx,
		store.Where("employee_id = ?", employeeID),
		store.Where("attendance_report_id IN (?)", r.reportIDs(ctx, p)),
	)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return detail, nil
}

// CreateDetail leaves an existing (report, employee) row untouched and loads
// it into detail instead.
func (r *AttendanceRepository) CreateDetail(ctx context.Context, detail *attendanceDatamodel.AttendanceReportDetail) error {
	res := r.store.Conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "attendance_report_id"}, {Name: "employee_id"}},
			DoNothing: true,
		}).
		Create(detail)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindDetail(ctx, detail.AttendanceReportID, detail.EmployeeID)
		if err != nil {
			return err
		}
		if existing != nil {
			*detail = *existing
		}
	}
	return nil
}

func (r *AttendanceRepository) ListDetails(ctx context.Context, reportID int64) ([]*attendanceDatamodel.AttendanceReportDetail, error) {
	return r.details.FindMany(ctx,
		store.Where("attendance_report_id = ?", reportID),
		store.OrderBy("employee_id ASC"),
	)
}

func (r *AttendanceRepository) DeleteByPeriod(ctx context.Context, p period.Period) (int64, error) {
	var removed int64
	err := r.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := r.details.Delete(ctx, store.Where("attendance_report_id IN (?)", r.reportIDs(ctx, p))); err != nil {
			return err
		}
		n, err := r.reports.Delete(ctx, byPeriod(p))
		removed = n
		return err
	})
	return removed, err
}

func (r *AttendanceRepository) reportIDs(ctx context.Context, p period.Period) interface{} {
	return r.store.Conn(ctx).
		Model(&attendanceDatamodel.AttendanceReport{}).
		Select("id").
		Where("month = ? AND year = ?", p.Month, p.Year)
}
