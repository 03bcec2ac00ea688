package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/frahmantamala/hr-payroll/internal/attendance"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
	"github.com/spf13/cobra"
)

var (
	reportMonth int
	reportYear  int
	reportID    int64
	employeeID  int64
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Attendance report operations",
}

var attendanceGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the attendance report for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := period.New(reportMonth, reportYear)
		if err != nil {
			return err
		}
		return withDependencies(func(ctx context.Context, deps *Dependencies) error {
			result, err := deps.Attendance.CreateAttendanceReport(ctx, p)
			if err != nil {
				return err
			}
			return printJSON(attendance.ToReportResponse(result))
		})
	},
}

var payrollCmd = &cobra.Command{
	Use:   "payroll",
	Short: "Payroll report operations",
}

var payrollGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the payroll report for the current period, or --month/--year",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := payroll.GenerateReportRequest{Month: reportMonth, Year: reportYear}
		return withDependencies(func(ctx context.Context, deps *Dependencies) error {
			var (
				result *payroll.GenerationResult
				err    error
			)
			if req.IsEmpty() {
				result, err = deps.Payroll.CreatePayrollReport(ctx)
			} else {
				p, perr := req.Period()
				if perr != nil {
					return perr
				}
				result, err = deps.Payroll.CreatePayrollReportForPeriod(ctx, p)
			}
			if err != nil {
				return err
			}
			return printJSON(payroll.ToGenerationResponse(result))
		})
	},
}

var payrollDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete a payroll report and its period's attendance report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(func(ctx context.Context, deps *Dependencies) error {
			if err := deps.Payroll.DeletePayrollReportByID(ctx, reportID); err != nil {
				return err
			}
			fmt.Printf("payroll report %d deleted\n", reportID)
			return nil
		})
	},
}

var payrollPayslipCmd = &cobra.Command{
	Use:   "payslip",
	Short: "Write an employee's payslip PDF for a payroll report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(func(ctx context.Context, deps *Dependencies) error {
			path, err := deps.Payroll.GeneratePayslip(ctx, reportID, employeeID)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		})
	},
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Contract operations",
}

var contractsSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Mark every lapsed ACTIVE contract as EXPIRED",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(func(ctx context.Context, deps *Dependencies) error {
			result, err := deps.Contracts.UpdateExpiredContracts(ctx)
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var expiringWithinDays int

var contractsExpiringCmd = &cobra.Command{
	Use:   "expiring",
	Short: "List ACTIVE contracts ending within --days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies(func(ctx context.Context, deps *Dependencies) error {
			list, err := deps.Contracts.ListExpiring(ctx, expiringWithinDays)
			if err != nil {
				return err
			}
			out := make([]contract.ContractResponse, 0, len(list))
			for _, c := range list {
				out = append(out, contract.ToResponse(c))
			}
			return printJSON(out)
		})
	},
}

// withDependencies runs fn with wired services and drains background work
// before returning.
func withDependencies(fn func(ctx context.Context, deps *Dependencies) error) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	deps, err := initializeDependencies(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	runErr := fn(ctx, deps)

	closeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	deps.Close(closeCtx)
	return runErr
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	attendanceGenerateCmd.Flags().IntVar(&reportMonth, "month", 0, "period month (1-12)")
	attendanceGenerateCmd.Flags().IntVar(&reportYear, "year", 0, "period year")
	_ = attendanceGenerateCmd.MarkFlagRequired("month")
	_ = attendanceGenerateCmd.MarkFlagRequired("year")
	attendanceCmd.AddCommand(attendanceGenerateCmd)

	payrollGenerateCmd.Flags().IntVar(&reportMonth, "month", 0, "period month, defaults to the current period")
	payrollGenerateCmd.Flags().IntVar(&reportYear, "year", 0, "period year, defaults to the current period")
	payrollDeleteCmd.Flags().Int64Var(&reportID, "id", 0, "payroll report id")
	_ = payrollDeleteCmd.MarkFlagRequired("id")
	payrollPayslipCmd.Flags().Int64Var(&reportID, "report", 0, "payroll report id")
	payrollPayslipCmd.Flags().Int64Var(&employeeID, "employee", 0, "employee id")
	_ = payrollPayslipCmd.MarkFlagRequired("report")
	_ = payrollPayslipCmd.MarkFlagRequired("employee")
	payrollCmd.AddCommand(payrollGenerateCmd, payrollDeleteCmd, payrollPayslipCmd)

	contractsExpiringCmd.Flags().IntVar(&expiringWithinDays, "days", 30, "look-ahead window in days")
	contractsCmd.AddCommand(contractsSweepCmd, contractsExpiringCmd)
}
