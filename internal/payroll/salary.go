package payroll

import (
	"context"
	"fmt"
	"log/slog"

	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/leave"
)

// Breakdown is one employee's pay for a period in minor currency units.
type Breakdown struct {
	PayableDays int   `json:"payable_days"`
	BasicSalary int64 `json:"basic_salary"`
	Deductions  int64 `json:"deductions"`
	TotalSalary int64 `json:"total_salary"`
}

// Calculate applies the flat-rate policy: every period is worth daysInPeriod
// days and each over-leave day is deducted at the daily rate. Payable days
// never go below zero, so deductions never exceed the basic salary.
func Calculate(daysInPeriod int, dailySalary int64, overLeaveDays int) Breakdown {
	payable := daysInPeriod - overLeaveDays
	if payable < 0 {
		payable = 0
	}
	basic := int64(daysInPeriod) * dailySalary
	total := int64(payable) * dailySalary
	return Breakdown{
		PayableDays: payable,
		BasicSalary: basic,
		Deductions:  basic - total,
		TotalSalary: total,
	}
}

type ContractFinder interface {
	// FindActive returns the employee's ACTIVE contract, or nil when there
	// is none.
	FindActive(ctx context.Context, employeeID int64) (*contractDatamodel.Contract, error)
}

type UsageCalculator interface {
	ComputeLeaveUsage(ctx context.Context, employeeID int64, p period.Period) (leave.Usage, error)
}

type SalaryCalculator struct {
	daysInPeriod int
	contracts    ContractFinder
	usage        UsageCalculator
	logger       *slog.Logger
}

func NewSalaryCalculator(daysInPeriod int, contracts ContractFinder, usage UsageCalculator, logger *slog.Logger) *SalaryCalculator {
	return &SalaryCalculator{
		daysInPeriod: daysInPeriod,
		contracts:    contracts,
		usage:        usage,
		logger:       logger,
	}
}

func (c *SalaryCalculator) DaysInPeriod() int {
	return c.daysInPeriod
}

// Calculate prices an already loaded contract.
func (c *SalaryCalculator) Calculate(contract *contractDatamodel.Contract, overLeaveDays int) Breakdown {
	return Calculate(c.daysInPeriod, contract.DailySalaryAmount, overLeaveDays)
}

// CalculateSalaryForEmployee returns the total salary for the period. An
// employee without an active contract earns 0; that is not an error.
func (c *SalaryCalculator) CalculateSalaryForEmployee(ctx context.Context, employeeID int64, p period.Period) (int64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	contract, err := c.contracts.FindActive(ctx, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to find active contract: %w", err)
	}
	if contract == nil {
		c.logger.Debug("no active contract, salary is zero", "employee_id", employeeID, "period", p.String())
		return 0, nil
	}

	usage, err := c.usage.ComputeLeaveUsage(ctx, employeeID, p)
	if err != nil {
		return 0, err
	}

	return c.Calculate(contract, usage.OverLeaveDays).TotalSalary, nil
}
