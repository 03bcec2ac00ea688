package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/datamodel/performance"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func dialector(cfg internal.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.Source), nil
	case "mysql":
		return mysql.Open(cfg.Source), nil
	case "sqlite":
		return sqlite.Open(cfg.Source), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Open connects with the configured driver and pool limits. Errors are
// translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(cfg internal.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(d, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if log != nil {
		log.Info("database connected", "driver", cfg.Driver, "max_open_conns", cfg.MaxOpenConns)
	}
	return db, nil
}

// Models lists every table the service owns, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&employee.Employee{},
		&contract.Contract{},
		&leave.LeaveType{},
		&leave.LeaveApplication{},
		&attendance.AttendanceReport{},
		&attendance.AttendanceReportDetail{},
		&performance.PerformanceReport{},
		&performance.PerformanceReportDetail{},
		&payroll.PayrollReport{},
		&payroll.PayrollReportDetail{},
	}
}

// AutoMigrate creates the schema from the models. Production schemas are
// managed by goose; this is used by sqlite tests and local runs.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
