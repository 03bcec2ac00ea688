package payroll

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/core/clock"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/events"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
)

type Dependencies struct {
	Tx          Transactor
	Repo        RepositoryAPI
	Summaries   SummaryReader
	Attendance  AttendanceGenerator
	Attendances AttendanceStore
	Employees   EmployeeDirectory
	Contracts   ContractFinder
	Performance PerformanceReader
	Calculator  *SalaryCalculator
	Payslips    *PayslipRenderer
	Events      events.Publisher
	Clock       clock.Clock
	Currency    string
}

type Service struct {
	deps   Dependencies
	logger *slog.Logger
}

func NewService(deps Dependencies, logger *slog.Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.System
	}
	if deps.Currency == "" {
		deps.Currency = internal.DefaultCurrency
	}
	return &Service{
		deps:   deps,
		logger: logger,
	}
}

// CreatePayrollReport runs the payroll for the clock's current period.
func (s *Service) CreatePayrollReport(ctx context.Context) (*GenerationResult, error) {
	return s.CreatePayrollReportForPeriod(ctx, period.Current(s.deps.Clock))
}

// CreatePayrollReportForPeriod creates the period's report, generates its
// attendance and prices every eligible employee in one transaction. Employees
// missing a contract, performance detail or attendance detail are skipped and
// counted; any other failure rolls the whole period back.
func (s *Service) CreatePayrollReportForPeriod(ctx context.Context, p period.Period) (*GenerationResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	log := s.logger.With("period", p.String(), "triggered_by", internal.TriggeredBy(ctx))
	result := &GenerationResult{Period: p, Skipped: map[SkipReason]int{}}

	err := s.deps.Tx.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.deps.Repo.ReportExists(ctx, p)
		if err != nil {
			return fmt.Errorf("failed to check payroll report: %w", err)
		}
		if exists {
			return internal.ErrPeriodAlreadyGenerated.WithDetails(p)
		}

		report := &payrollDatamodel.PayrollReport{
			Month:    p.Month,
			Year:     p.Year,
			Status:   payrollDatamodel.ReportStatusCreated,
			Currency: s.deps.Currency,
		}
		if err := s.deps.Repo.CreateReport(ctx, report); err != nil {
			return err
		}
		result.Report = report

		if _, err := s.deps.Attendance.Generate(ctx, p); err != nil {
			return fmt.Errorf("attendance generation for %s: %w", p, err)
		}
		if err := s.setStatus(ctx, report, payrollDatamodel.ReportStatusAttendanceGenerated, 0); err != nil {
			return err
		}

		employees, err := s.deps.Employees.ListEligible(ctx)
		if err != nil {
			return err
		}

		for _, emp := range employees {
			reason, err := s.populateDetail(ctx, report, emp, p)
			if err != nil {
				log.Error("payroll generation aborted", "employee_id", emp.ID, "error", err)
				return fmt.Errorf("payroll detail for employee %d: %w", emp.ID, err)
			}
			if reason != "" {
				log.Debug("employee skipped", "employee_id", emp.ID, "reason", reason)
				result.skip(reason)
				continue
			}
			result.DetailsCreated++
		}

		return s.setStatus(ctx, report, payrollDatamodel.ReportStatusDetailsPopulated, result.DetailsCreated)
	})
	if err != nil {
		return nil, err
	}

	log.Info("payroll report generated",
		"report_id", result.Report.ID,
		"details_created", result.DetailsCreated,
		"skipped", result.SkippedTotal())

	if s.deps.Events != nil {
		skipped := make(map[string]int, len(result.Skipped))
		for k, v := range result.Skipped {
			skipped[string(k)] = v
		}
		evt := events.NewPayrollReportGeneratedEvent(result.Report.ID, p.Month, p.Year, result.DetailsCreated, skipped, internal.TriggeredBy(ctx))
		if err := s.deps.Events.Publish(ctx, evt); err != nil {
			log.Warn("failed to publish payroll report event", "report_id", result.Report.ID, "error", err)
		}
	}

	return result, nil
}

func (s *Service) setStatus(ctx context.Context, report *payrollDatamodel.PayrollReport, status payrollDatamodel.ReportStatus, detailCount int) error {
	if err := s.deps.Repo.UpdateReportStatus(ctx, report.ID, status, detailCount); err != nil {
		return fmt.Errorf("failed to move payroll report to %s: %w", status, err)
	}
	report.Status = status
	report.DetailCount = detailCount
	return nil
}

// populateDetail returns a non-empty reason when the employee is skipped.
func (s *Service) populateDetail(ctx context.Context, report *payrollDatamodel.PayrollReport, emp *employeeDatamodel.Employee, p period.Period) (SkipReason, error) {
	existing, err := s.deps.Repo.FindDetail(ctx, report.ID, emp.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return SkipAlreadyExists, nil
	}

	contract, err := s.deps.Contracts.FindActive(ctx, emp.ID)
	if err != nil {
		return "", err
	}
	if contract == nil {
		return SkipNoActiveContract, nil
	}

	perf, err := s.deps.Performance.FindDetail(ctx, emp.ID, p)
	if err != nil {
		return "", err
	}
	if perf == nil {
		return SkipNoPerformanceDetail, nil
	}

	att, err := s.deps.Attendances.FindDetailForPeriod(ctx, emp.ID, p)
	if err != nil {
		return "", err
	}
	if att == nil {
		return SkipNoAttendanceDetail, nil
	}

	pay := s.deps.Calculator.Calculate(contract, att.OverLeaveDays)

	var allowances int64
	if contract.AllowanceAmount != nil {
		allowances = *contract.AllowanceAmount
	}
	ratio := DefaultPerformanceRatio
	if perf.AverageScore != nil {
		ratio = *perf.AverageScore
	}

	detail := &payrollDatamodel.PayrollReportDetail{
		PayrollReportID:           report.ID,
		EmployeeID:                emp.ID,
		ContractID:                contract.ID,
		AttendanceReportDetailID:  att.ID,
		PerformanceReportDetailID: perf.ID,
		BasicSalaryAmount:         pay.BasicSalary,
		AllowancesAmount:          allowances,
		DeductionsAmount:          pay.Deductions,
		PerformanceRatio:          ratio,
		TotalSalaryAmount:         pay.TotalSalary,
	}
	if err := s.deps.Repo.CreateDetail(ctx, detail); err != nil {
		return "", err
	}
	return "", nil
}

// DeletePayrollReportByID removes the report, its details and the attendance
// report of the same period in one transaction.
func (s *Service) DeletePayrollReportByID(ctx context.Context, id int64) error {
	var report *payrollDatamodel.PayrollReport
	err := s.deps.Tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		report, err = s.deps.Repo.GetReportByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.deps.Repo.DeleteReport(ctx, id); err != nil {
			return fmt.Errorf("failed to delete payroll report: %w", err)
		}
		p := period.Period{Month: report.Month, Year: report.Year}
		if _, err := s.deps.Attendances.DeleteByPeriod(ctx, p); err != nil {
			return fmt.Errorf("failed to delete attendance for %s: %w", p, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	actor := internal.TriggeredBy(ctx)
	s.logger.Info("payroll report deleted", "report_id", id, "month", report.Month, "year", report.Year, "triggered_by", actor)
	if s.deps.Events != nil {
		if err := s.deps.Events.Publish(ctx, events.NewPayrollReportDeletedEvent(id, report.Month, report.Year, actor)); err != nil {
			s.logger.Warn("failed to publish payroll deletion event", "report_id", id, "error", err)
		}
	}
	return nil
}

func (s *Service) GetPayrollReport(ctx context.Context, id int64) (*payrollDatamodel.PayrollReport, error) {
	return s.deps.Repo.GetReportByID(ctx, id)
}

func (s *Service) ListPayrollReports(ctx context.Context, page store.Page) ([]*payrollDatamodel.PayrollReport, int64, error) {
	return s.deps.Repo.ListReports(ctx, page.Normalize())
}

func (s *Service) ListPayrollDetails(ctx context.Context, reportID int64) ([]DetailSummary, error) {
	if _, err := s.deps.Repo.GetReportByID(ctx, reportID); err != nil {
		return nil, err
	}
	return s.deps.Summaries.ListDetailSummaries(ctx, reportID)
}
