package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/hr-payroll/internal/core/database"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testConfig = `
http_server:
  port: 8081
  read_header_timeout: 5s
  read_timeout: 15s
database:
  driver: sqlite
  source: "file:%s?mode=memory&cache=shared"
  max_open_conns: 1
  max_idle_conns: 1
security:
  jwt_secret: test-secret
payroll:
  days_in_period: 26
  currency: IDR
  payslip_dir: %s
scheduler:
  timezone: UTC
  contract_sweep_interval: 24h
observability:
  logging:
    level: error
`

func writeConfig(dir, content string) {
	Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600)).To(Succeed())
}

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("reads config.yml and fills defaults", func() {
		writeConfig(dir, fmt.Sprintf(testConfig, uuid.NewString(), dir))

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Database.Driver).To(Equal("sqlite"))
		Expect(cfg.Payroll.DaysInPeriod).To(Equal(26))
		Expect(cfg.Security.AdminPermission).To(Equal("manage_payroll"))
		Expect(cfg.Tasks.MaxWorkers).To(Equal(4))
		Expect(cfg.Scheduler.ContractSweepInterval).To(Equal(24 * time.Hour))
	})

	It("lets ENV_ variables override file values", func() {
		writeConfig(dir, fmt.Sprintf(testConfig, uuid.NewString(), dir))
		Expect(os.Setenv("ENV_PAYROLL_DAYS_IN_PERIOD", "22")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_PAYROLL_DAYS_IN_PERIOD")

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Payroll.DaysInPeriod).To(Equal(22))
	})

	It("rejects an invalid payroll policy", func() {
		writeConfig(dir, fmt.Sprintf(testConfig, uuid.NewString(), dir))
		Expect(os.Setenv("ENV_PAYROLL_DAYS_IN_PERIOD", "40")).To(Succeed())
		DeferCleanup(os.Unsetenv, "ENV_PAYROLL_DAYS_IN_PERIOD")

		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("days_in_period")))
	})

	It("fails without a config file", func() {
		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("error reading config")))
	})
})

var _ = Describe("initializeDependencies", func() {
	var (
		deps *Dependencies
		ctx  context.Context
	)

	BeforeEach(func() {
		dir := GinkgoT().TempDir()
		writeConfig(dir, fmt.Sprintf(testConfig, uuid.NewString(), dir))
		cfg, err := loadConfig(dir)
		Expect(err).NotTo(HaveOccurred())

		deps, err = initializeDependencies(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(database.AutoMigrate(deps.Gorm)).To(Succeed())
		ctx = context.Background()

		DeferCleanup(func() {
			deps.Close(context.Background())
		})
	})

	It("wires a payroll service that runs an empty period", func() {
		result, err := deps.Payroll.CreatePayrollReport(ctx)

		Expect(err).NotTo(HaveOccurred())
		Expect(result.DetailsCreated).To(Equal(0))
		Expect(result.Report.ID).To(BeNumerically(">", 0))
	})

	It("builds a contract sweep job that starts at the next midnight", func() {
		job, err := contractSweepJob(deps)
		Expect(err).NotTo(HaveOccurred())

		now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
		Expect(job.FirstRun(now)).To(BeTemporally("==", time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)))
		Expect(job.Interval).To(Equal(24 * time.Hour))
		Expect(job.Fn(ctx)).To(Succeed())
	})

	It("reads the services' clock in the scheduler timezone", func() {
		Expect(deps.Clock.Now().Location()).To(Equal(time.UTC))
	})

	It("serves the public ping route", func() {
		router := setupRoutes(deps, "")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

var _ = DescribeTable("sqlxDriverName",
	func(driver, expected string) {
		Expect(sqlxDriverName(driver)).To(Equal(expected))
	},
	Entry("postgres uses pgx", "postgres", "pgx"),
	Entry("mysql", "mysql", "mysql"),
	Entry("sqlite uses mattn's driver", "sqlite", "sqlite3"),
)
