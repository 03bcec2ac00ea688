package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/database"
	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	leaveDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample employees, leave types, leave applications, contracts and performance scores for the current period.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		deps, err := initializeDependencies(cfg)
		if err != nil {
			log.Fatalf("failed to init dependencies: %v", err)
		}
		ctx := context.Background()
		defer deps.Close(ctx)
		db := deps.Gorm

		if clearData {
			// children before parents
			models := database.Models()
			for i := len(models) - 1; i >= 0; i-- {
				if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
					log.Fatalf("failed to clear %T: %v", models[i], err)
				}
			}
			fmt.Println("Existing data cleared")
		}

		leaveTypes := []struct {
			Name    string
			MaxDays int
		}{
			{"Annual Leave", 12},
			{"Sick Leave", 14},
			{"Unpaid Leave", 0},
		}
		typeIDs := map[string]int64{}
		for _, t := range leaveTypes {
			maxDays := t.MaxDays
			lt := leaveDatamodel.LeaveType{Name: t.Name, MaxDays: &maxDays}
			if err := db.Where(leaveDatamodel.LeaveType{Name: t.Name}).FirstOrCreate(&lt).Error; err != nil {
				log.Fatalf("failed to seed leave type %s: %v", t.Name, err)
			}
			typeIDs[t.Name] = lt.ID
		}
		fmt.Println("Leave types seeded")

		employees := []struct {
			Code   string
			Name   string
			Email  string
			Status employeeDatamodel.WorkStatus
			Daily  int64
			Score  float64
		}{
			{"EMP-001", "Fadhil Rahman", "fadhil@mail.com", employeeDatamodel.WorkStatusOnsite, 500000, 4.5},
			{"EMP-002", "Padil Admin", "padil@mail.com", employeeDatamodel.WorkStatusFromHome, 650000, 3.8},
			{"EMP-003", "Sari Wulandari", "sari@mail.com", employeeDatamodel.WorkStatusOnsite, 420000, 5.0},
			{"EMP-004", "Budi Santoso", "budi@mail.com", employeeDatamodel.WorkStatusResigned, 380000, 0},
		}

		p := period.Current(deps.Clock)
		start := p.FirstDay()
		allowance := int64(250000)

		for _, e := range employees {
			emp := employeeDatamodel.Employee{
				Code:       e.Code,
				FullName:   e.Name,
				Email:      e.Email,
				WorkStatus: e.Status,
				IsActive:   !e.Status.IsSeparated(),
			}
			if err := db.Where(employeeDatamodel.Employee{Code: e.Code}).FirstOrCreate(&emp).Error; err != nil {
				log.Fatalf("failed to seed employee %s: %v", e.Code, err)
			}
			fmt.Printf("Seeded employee: %s\n", e.Code)

			if e.Status.IsSeparated() {
				continue
			}

			contractStart := start.AddDate(0, -6, 0)
			_, err := deps.Contracts.CreateContract(ctx, contract.CreateContractRequest{
				EmployeeID:        emp.ID,
				Type:              string(contractDatamodel.TypeFullTime),
				StartDate:         contractStart.Format(time.DateOnly),
				EndDate:           contractStart.AddDate(1, 0, -1).Format(time.DateOnly),
				SignedDate:        contractStart.AddDate(0, 0, -7).Format(time.DateOnly),
				Status:            string(contractDatamodel.StatusActive),
				DailySalaryAmount: e.Daily,
				AllowanceAmount:   &allowance,
			})
			if err != nil && !errors.Is(err, internal.ErrActiveContractExists) {
				log.Fatalf("failed to seed contract for %s: %v", e.Code, err)
			}

			if _, err := deps.Performance.RecordAverageScore(ctx, emp.ID, p, e.Score); err != nil {
				log.Fatalf("failed to seed performance score for %s: %v", e.Code, err)
			}

			// three days of annual leave in the first week of the period
			application := leaveDatamodel.LeaveApplication{
				EmployeeID:  emp.ID,
				LeaveTypeID: typeIDs["Annual Leave"],
				StartDate:   start.AddDate(0, 0, 1),
				EndDate:     start.AddDate(0, 0, 3),
				Status:      leaveDatamodel.ApplicationStatusApproved,
				Reason:      "family event",
			}
			if err := db.Where(leaveDatamodel.LeaveApplication{EmployeeID: emp.ID, StartDate: application.StartDate}).FirstOrCreate(&application).Error; err != nil {
				log.Fatalf("failed to seed leave for %s: %v", e.Code, err)
			}
		}

		fmt.Printf("Sample data seeded for period %s\n", p)
	},
}
