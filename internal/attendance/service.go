package attendance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-payroll/internal"
	attendanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	"github.com/frahmantamala/hr-payroll/internal/core/events"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
)

type Generator struct {
	tx        Transactor
	repo      RepositoryAPI
	employees EmployeeLister
	usage     UsageCalculator
	events    events.Publisher
	logger    *slog.Logger
}

func NewGenerator(tx Transactor, repo RepositoryAPI, employees EmployeeLister, usage UsageCalculator, publisher events.Publisher, logger *slog.Logger) *Generator {
	return &Generator{
		tx:        tx,
		repo:      repo,
		employees: employees,
		usage:     usage,
		events:    publisher,
		logger:    logger,
	}
}

// CreateAttendanceReport generates the period's report in its own transaction
// and announces it once committed.
func (g *Generator) CreateAttendanceReport(ctx context.Context, p period.Period) (*Result, error) {
	var result *Result
	err := g.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		result, err = g.Generate(ctx, p)
		return err
	})
	if err != nil {
		return nil, err
	}

	if g.events != nil {
		evt := events.NewAttendanceReportGeneratedEvent(result.Report.ID, p.Month, p.Year, result.DetailsCreated)
		if err := g.events.Publish(ctx, evt); err != nil {
			g.logger.Warn("failed to publish attendance report event", "report_id", result.Report.ID, "error", err)
		}
	}
	return result, nil
}

// Generate does the work of CreateAttendanceReport on whatever transaction ctx
// carries. Callers composing a larger unit, such as the payroll run, use it
// directly. Any per-employee failure aborts the run.
func (g *Generator) Generate(ctx context.Context, p period.Period) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	exists, err := g.repo.ReportExists(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance report: %w", err)
	}
	if exists {
		g.logger.Warn("attendance report already generated", "period", p.String())
		return nil, internal.ErrPeriodAlreadyGenerated.WithDetails(p)
	}

	report := &attendanceDatamodel.AttendanceReport{Month: p.Month, Year: p.Year}
	if err := g.repo.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	employees, err := g.employees.ListEligible(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Report: report, Details: make([]*attendanceDatamodel.AttendanceReportDetail, 0, len(employees))}
	for _, emp := range employees {
		detail, created, err := g.ensureDetail(ctx, report, emp.ID, p)
		if err != nil {
			g.logger.Error("attendance generation aborted",
				"period", p.String(),
				"employee_id", emp.ID,
				"error", err)
			return nil, fmt.Errorf("attendance detail for employee %d: %w", emp.ID, err)
		}
		if created {
			result.DetailsCreated++
		}
		result.Details = append(result.Details, detail)
	}

	g.logger.Info("attendance report generated",
		"report_id", report.ID,
		"period", p.String(),
		"employees", len(employees),
		"details_created", result.DetailsCreated)

	return result, nil
}

func (g *Generator) ensureDetail(ctx context.Context, report *attendanceDatamodel.AttendanceReport, employeeID int64, p period.Period) (*attendanceDatamodel.AttendanceReportDetail, bool, error) {
	existing, err := g.repo.FindDetail(ctx, report.ID, employeeID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	usage, err := g.usage.ComputeLeaveUsage(ctx, employeeID, p)
	if err != nil {
		return nil, false, err
	}

	detail := &attendanceDatamodel.AttendanceReportDetail{
		AttendanceReportID: report.ID,
		EmployeeID:         employeeID,
		LeaveDays:          usage.LeaveDays,
		OverLeaveDays:      usage.OverLeaveDays,
	}
	if err := g.repo.CreateDetail(ctx, detail); err != nil {
		return nil, false, err
	}
	return detail, true, nil
}

// GetReport returns the period's report with its details.
func (g *Generator) GetReport(ctx context.Context, p period.Period) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	report, err := g.repo.FindReport(ctx, p)
	if err != nil {
		return nil, err
	}
	details, err := g.repo.ListDetails(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Report: report, Details: details}, nil
}
