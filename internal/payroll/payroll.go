package payroll

import (
	"context"

	"github.com/frahmantamala/hr-payroll/internal/attendance"
	attendanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/performance"
)

type RepositoryAPI interface {
	ReportExists(ctx context.Context, p period.Period) (bool, error)
	// CreateReport returns internal.ErrPeriodAlreadyGenerated when the
	// period's unique index rejects the row.
	CreateReport(ctx context.Context, report *payrollDatamodel.PayrollReport) error
	UpdateReportStatus(ctx context.Context, reportID int64, status payrollDatamodel.ReportStatus, detailCount int) error
	GetReportByID(ctx context.Context, id int64) (*payrollDatamodel.PayrollReport, error)
	ListReports(ctx context.Context, page store.Page) ([]*payrollDatamodel.PayrollReport, int64, error)
	FindDetail(ctx context.Context, reportID, employeeID int64) (*payrollDatamodel.PayrollReportDetail, error)
	CreateDetail(ctx context.Context, detail *payrollDatamodel.PayrollReportDetail) error
	DeleteReport(ctx context.Context, reportID int64) error
}

// SummaryReader is the reporting read model joining details with employees.
type SummaryReader interface {
	ListDetailSummaries(ctx context.Context, reportID int64) ([]DetailSummary, error)
}

type AttendanceGenerator interface {
	Generate(ctx context.Context, p period.Period) (*attendance.Result, error)
}

type AttendanceStore interface {
	FindDetailForPeriod(ctx context.Context, employeeID int64, p period.Period) (*attendanceDatamodel.AttendanceReportDetail, error)
	DeleteByPeriod(ctx context.Context, p period.Period) (int64, error)
}

type EmployeeDirectory interface {
	GetByID(ctx context.Context, id int64) (*employeeDatamodel.Employee, error)
	ListEligible(ctx context.Context) ([]*employeeDatamodel.Employee, error)
}

type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type PerformanceReader = performance.Reader

// SkipReason explains why an eligible employee got no detail row.
type SkipReason string

const (
	SkipAlreadyExists       SkipReason = "already_exists"
	SkipNoActiveContract    SkipReason = "no_active_contract"
	SkipNoPerformanceDetail SkipReason = "no_performance_detail"
	SkipNoAttendanceDetail  SkipReason = "no_attendance_detail"
)

// DefaultPerformanceRatio is the neutral multiplier for a detail whose score
// is null.
const DefaultPerformanceRatio = 1.0

type GenerationResult struct {
	Report         *payrollDatamodel.PayrollReport `json:"report"`
	Period         period.Period                   `json:"period"`
	DetailsCreated int                             `json:"details_created"`
	Skipped        map[SkipReason]int              `json:"skipped"`
}

func (r *GenerationResult) skip(reason SkipReason) {
	if r.Skipped == nil {
		r.Skipped = make(map[SkipReason]int)
	}
	r.Skipped[reason]++
}

func (r *GenerationResult) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

type DetailSummary struct {
	DetailID         int64   `db:"detail_id" json:"detail_id"`
	EmployeeID       int64   `db:"employee_id" json:"employee_id"`
	EmployeeCode     string  `db:"employee_code" json:"employee_code"`
	EmployeeName     string  `db:"employee_name" json:"employee_name"`
	ContractID       int64   `db:"contract_id" json:"contract_id"`
	BasicSalary      int64   `db:"basic_salary_amount" json:"basic_salary"`
	Allowances       int64   `db:"allowances_amount" json:"allowances"`
	Deductions       int64   `db:"deductions_amount" json:"deductions"`
	PerformanceRatio float64 `db:"performance_ratio" json:"performance_ratio"`
	TotalSalary      int64   `db:"total_salary_amount" json:"total_salary"`
	LeaveDays        int     `db:"leave_days" json:"leave_days"`
	OverLeaveDays    int     `db:"over_leave_days" json:"over_leave_days"`
}
