package attendance

import (
	"context"

	attendanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/leave"
)

type RepositoryAPI interface {
	ReportExists(ctx context.Context, p period.Period) (bool, error)
	// CreateReport returns internal.ErrPeriodAlreadyGenerated when the
	// period's unique index rejects the row.
	CreateReport(ctx context.Context, report *attendanceDatamodel.AttendanceReport) error
	FindReport(ctx context.Context, p period.Period) (*attendanceDatamodel.AttendanceReport, error)
	FindDetail(ctx context.Context, reportID, employeeID int64) (*attendanceDatamodel.AttendanceReportDetail, error)
	FindDetailForPeriod(ctx context.Context, employeeID int64, p period.Period) (*attendanceDatamodel.AttendanceReportDetail, error)
	CreateDetail(ctx context.Context, detail *attendanceDatamodel.AttendanceReportDetail) error
	ListDetails(ctx context.Context, reportID int64) ([]*attendanceDatamodel.AttendanceReportDetail, error)
	// DeleteByPeriod removes the period's reports and every detail under them.
	DeleteByPeriod(ctx context.Context, p period.Period) (int64, error)
}

type EmployeeLister interface {
	ListEligible(ctx context.Context) ([]*employeeDatamodel.Employee, error)
}

type UsageCalculator interface {
	ComputeLeaveUsage(ctx context.Context, employeeID int64, p period.Period) (leave.Usage, error)
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Result struct {
	Report         *attendanceDatamodel.AttendanceReport         `json:"report"`
	Details        []*attendanceDatamodel.AttendanceReportDetail `json:"details"`
	DetailsCreated int                                           `json:"details_created"`
}

// DetailFor returns the detail row of employeeID, or nil.
func (r *Result) DetailFor(employeeID int64) *attendanceDatamodel.AttendanceReportDetail {
	for _, d := range r.Details {
		if d.EmployeeID == employeeID {
			return d
		}
	}
	return nil
}
