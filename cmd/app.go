package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/attendance"
	attendancePostgres "github.com/frahmantamala/hr-payroll/internal/attendance/postgres"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	contractPostgres "github.com/frahmantamala/hr-payroll/internal/contract/postgres"
	"github.com/frahmantamala/hr-payroll/internal/core/clock"
	"github.com/frahmantamala/hr-payroll/internal/core/cron"
	"github.com/frahmantamala/hr-payroll/internal/core/database"
	"github.com/frahmantamala/hr-payroll/internal/core/events"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/core/tasks"
	"github.com/frahmantamala/hr-payroll/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-payroll/internal/employee/postgres"
	"github.com/frahmantamala/hr-payroll/internal/leave"
	leavePostgres "github.com/frahmantamala/hr-payroll/internal/leave/postgres"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
	payrollPostgres "github.com/frahmantamala/hr-payroll/internal/payroll/postgres"
	"github.com/frahmantamala/hr-payroll/internal/performance"
	performancePostgres "github.com/frahmantamala/hr-payroll/internal/performance/postgres"
	"github.com/frahmantamala/hr-payroll/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Dependencies is everything a command needs, wired once from the config.
type Dependencies struct {
	Config *internal.Config
	Logger *slog.Logger
	Gorm   *gorm.DB
	SQL    *sql.DB
	Store  *store.Store
	Events *events.EventBus
	Tasks  *tasks.Pool
	Clock  clock.Clock

	Attendance  *attendance.Generator
	Payroll     *payroll.Service
	Contracts   *contract.Service
	Performance *performance.Recorder
}

// sqlxDriverName maps the configured driver to the database/sql driver name
// that goose and sqlx use for bind variables and dialect.
func sqlxDriverName(driver string) string {
	switch driver {
	case "mysql":
		return "mysql"
	case "sqlite":
		return "sqlite3"
	default:
		return "pgx"
	}
}

func initializeDependencies(cfg *internal.Config) (*Dependencies, error) {
	lg := logger.LoggerWrapper()

	loc, err := time.LoadLocation(cfg.Scheduler.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduler timezone: %w", err)
	}
	// "today" and the current period follow the scheduler's calendar
	appClock := clock.InLocation(clock.System, loc)

	db, err := database.Open(cfg.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	st := store.New(db)
	bus := events.NewEventBus(lg)
	subscribeAuditLog(bus, lg)
	pool := tasks.NewPool(tasks.Config{MaxWorkers: cfg.Tasks.MaxWorkers, QueueSize: cfg.Tasks.QueueSize}, lg)

	employeeRepo := employeePostgres.NewEmployeeRepository(st)
	employees := employee.NewService(employeeRepo, lg)
	attendanceRepo := attendancePostgres.NewAttendanceRepository(st)
	contractRepo := contractPostgres.NewContractRepository(st)
	performanceRepo := performancePostgres.NewPerformanceRepository(st)
	usage := leave.NewQuotaCalculator(leavePostgres.NewLeaveRepository(st), lg)

	generator := attendance.NewGenerator(st, attendanceRepo, employeeRepo, usage, bus, lg)

	payrollService := payroll.NewService(payroll.Dependencies{
		Tx:          st,
		Repo:        payrollPostgres.NewPayrollRepository(st),
		Summaries:   payrollPostgres.NewSummaryReader(sqlx.NewDb(sqlDB, sqlxDriverName(cfg.Database.Driver))),
		Attendance:  generator,
		Attendances: attendanceRepo,
		Employees:   employees,
		Contracts:   contractRepo,
		Performance: performanceRepo,
		Calculator:  payroll.NewSalaryCalculator(cfg.Payroll.DaysInPeriod, contractRepo, usage, lg),
		Payslips:    payroll.NewPayslipRenderer(cfg.Payroll.PayslipDir),
		Events:      bus,
		Clock:       appClock,
		Currency:    cfg.Payroll.Currency,
	}, lg)

	contractService := contract.NewService(st, contractRepo, employees, pool, bus, appClock, lg)

	return &Dependencies{
		Config:      cfg,
		Logger:      lg,
		Gorm:        db,
		SQL:         sqlDB,
		Store:       st,
		Events:      bus,
		Tasks:       pool,
		Clock:       appClock,
		Attendance:  generator,
		Payroll:     payrollService,
		Contracts:   contractService,
		Performance: performance.NewRecorder(performanceRepo, lg),
	}, nil
}

// Close drains background work before releasing the database.
func (d *Dependencies) Close(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		d.Tasks.Shutdown()
		d.Events.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.Logger.Warn("shutdown timeout reached, forcing exit")
	}

	if err := d.SQL.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}

// contractSweepJob runs the expiry sweep at the next local midnight and every
// interval after that.
func contractSweepJob(d *Dependencies) (cron.Job, error) {
	loc, err := time.LoadLocation(d.Config.Scheduler.Timezone)
	if err != nil {
		return cron.Job{}, fmt.Errorf("invalid scheduler timezone: %w", err)
	}
	return cron.Job{
		Name:     "contract-expiry-sweep",
		Interval: d.Config.Scheduler.ContractSweepInterval,
		FirstRun: cron.NextMidnightIn(loc),
		Fn: func(ctx context.Context) error {
			result, err := d.Contracts.UpdateExpiredContracts(ctx)
			if err != nil {
				return err
			}
			d.Logger.Info("contract sweep finished", "updated", result.Updated)
			return nil
		},
	}, nil
}

func subscribeAuditLog(bus *events.EventBus, lg *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		lg.Info("audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		events.EventTypeAttendanceReportGenerated,
		events.EventTypePayrollReportGenerated,
		events.EventTypePayrollReportDeleted,
		events.EventTypeContractsExpired,
	} {
		bus.Subscribe(eventType, audit)
	}
}
