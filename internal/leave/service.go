package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	leaveDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
)

type RepositoryAPI interface {
	// FindApprovedInWindow returns the employee's APPROVED applications that
	// intersect [from, to], with LeaveType preloaded.
	FindApprovedInWindow(ctx context.Context, employeeID int64, from, to time.Time) ([]*leaveDatamodel.LeaveApplication, error)
}

// QuotaCalculator derives leave and over-leave day counts from persisted
// applications. It never writes.
type QuotaCalculator struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewQuotaCalculator(repo RepositoryAPI, logger *slog.Logger) *QuotaCalculator {
	return &QuotaCalculator{
		repo:   repo,
		logger: logger,
	}
}

func (c *QuotaCalculator) ComputeLeaveUsage(ctx context.Context, employeeID int64, p period.Period) (Usage, error) {
	usage, _, err := c.ComputeLeaveBreakdown(ctx, employeeID, p)
	return usage, err
}

func (c *QuotaCalculator) ComputeLeaveBreakdown(ctx context.Context, employeeID int64, p period.Period) (Usage, []TypeUsage, error) {
	if err := p.Validate(); err != nil {
		return Usage{}, nil, err
	}

	applications, err := c.repo.FindApprovedInWindow(ctx, employeeID, p.FirstDay(), p.LastDay())
	if err != nil {
		return Usage{}, nil, fmt.Errorf("failed to load leave applications for employee %d: %w", employeeID, err)
	}

	usage, breakdown, err := Summarize(p, applications)
	if err != nil {
		c.logger.Error("leave data integrity fault",
			"employee_id", employeeID,
			"period", p.String(),
			"error", err)
		return Usage{}, nil, err
	}

	c.logger.Debug("leave usage computed",
		"employee_id", employeeID,
		"period", p.String(),
		"applications", len(applications),
		"leave_days", usage.LeaveDays,
		"over_leave_days", usage.OverLeaveDays)

	return usage, breakdown, nil
}
