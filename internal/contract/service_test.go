package contract_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/contract"
	contractPostgres "github.com/frahmantamala/hr-payroll/internal/contract/postgres"
	"github.com/frahmantamala/hr-payroll/internal/core/clock"
	"github.com/frahmantamala/hr-payroll/internal/core/database/testdb"
	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/core/tasks"
	"github.com/frahmantamala/hr-payroll/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-payroll/internal/employee/postgres"
)

// captureQueue holds tasks so a test can decide when background work runs.
type captureQueue struct {
	tasks []tasks.Task
	err   error
}

func (q *captureQueue) Enqueue(task tasks.Task) error {
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *captureQueue) runAll(ctx context.Context) {
	for _, t := range q.tasks {
		Expect(t.Run(ctx)).To(Succeed())
	}
	q.tasks = nil
}

var _ = Describe("Service", func() {
	var (
		db      *gorm.DB
		fx      *testdb.Fixtures
		queue   *captureQueue
		service *contract.Service
		ctx     context.Context
		today   time.Time
	)

	reload := func(id int64) *contractDatamodel.Contract {
		var c contractDatamodel.Contract
		Expect(db.First(&c, id).Error).To(Succeed())
		return &c
	}

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		st := store.New(db)
		fx = testdb.NewFixtures(db, func(err error) { Expect(err).NotTo(HaveOccurred()) })
		queue = &captureQueue{}
		today = testdb.Date(2024, 3, 15)

		service = contract.NewService(
			st,
			contractPostgres.NewContractRepository(st),
			employee.NewService(employeePostgres.NewEmployeeRepository(st), logger),
			queue,
			nil,
			clock.Fixed(today.Add(14*time.Hour)),
			logger,
		)
		ctx = context.Background()
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("UpdateExpiredContracts", func() {
		It("expires contracts that ended yesterday and is idempotent", func() {
			emp := fx.Employee("WORKING_ONSITE")
			lapsed := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 3, 15), today.AddDate(0, 0, -1), 500000, nil)

			first, err := service.UpdateExpiredContracts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Updated).To(Equal(int64(1)))
			Expect(first.Contracts).To(ConsistOf(lapsed.Code))
			Expect(reload(lapsed.ID).Status).To(Equal(contractDatamodel.StatusExpired))

			second, err := service.UpdateExpiredContracts(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Updated).To(BeZero())
			Expect(second.Contracts).To(BeEmpty())
			Expect(reload(lapsed.ID).Status).To(Equal(contractDatamodel.StatusExpired))
		})

		It("leaves a contract ending today active", func() {
			emp := fx.Employee("WORKING_ONSITE")
			endsToday := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 3, 15), today, 500000, nil)

			result, err := service.UpdateExpiredContracts(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Updated).To(BeZero())
			Expect(reload(endsToday.ID).Status).To(Equal(contractDatamodel.StatusActive))
		})

		It("ignores contracts that are not active", func() {
			emp := fx.Employee("WORKING_ONSITE")
			draft := fx.Contract(emp.ID, contractDatamodel.StatusDraft, testdb.Date(2023, 1, 1), testdb.Date(2023, 12, 31), 500000, nil)

			result, err := service.UpdateExpiredContracts(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Updated).To(BeZero())
			Expect(reload(draft.ID).Status).To(Equal(contractDatamodel.StatusDraft))
		})

		It("uses the scheduler's calendar when midnight there is still yesterday on the host", func() {
			wib := time.FixedZone("WIB", 7*60*60)
			// midnight of the 16th in WIB, 17:00 of the 15th in UTC
			hostNow := time.Date(2024, 3, 15, 17, 0, 0, 0, time.UTC)
			st := store.New(db)
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			zoned := contract.NewService(
				st,
				contractPostgres.NewContractRepository(st),
				employee.NewService(employeePostgres.NewEmployeeRepository(st), logger),
				queue,
				nil,
				clock.InLocation(clock.Fixed(hostNow), wib),
				logger,
			)
			emp := fx.Employee("WORKING_ONSITE")
			endedOn15th := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 3, 16), testdb.Date(2024, 3, 15), 500000, nil)

			result, err := zoned.UpdateExpiredContracts(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Updated).To(Equal(int64(1)))
			Expect(reload(endedOn15th.ID).Status).To(Equal(contractDatamodel.StatusExpired))
		})
	})

	Describe("GetContractByID", func() {
		It("reports a lapsed active contract as expired and corrects it in the background", func() {
			emp := fx.Employee("WORKING_ONSITE")
			lapsed := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 3, 1), testdb.Date(2024, 3, 1), 500000, nil)

			got, err := service.GetContractByID(ctx, lapsed.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(contractDatamodel.StatusExpired))
			Expect(queue.tasks).To(HaveLen(1))
			Expect(queue.tasks[0].Kind).To(Equal(contract.TaskKindExpireContract))
			Expect(queue.tasks[0].EntityID).To(Equal(lapsed.ID))

			// the read itself did not write
			Expect(reload(lapsed.ID).Status).To(Equal(contractDatamodel.StatusActive))

			queue.runAll(ctx)
			Expect(reload(lapsed.ID).Status).To(Equal(contractDatamodel.StatusExpired))
		})

		It("still answers when the queue rejects the correction", func() {
			emp := fx.Employee("WORKING_ONSITE")
			lapsed := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 3, 1), testdb.Date(2024, 3, 1), 500000, nil)
			queue.err = tasks.ErrQueueFull

			got, err := service.GetContractByID(ctx, lapsed.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(contractDatamodel.StatusExpired))
		})

		It("returns a current contract untouched", func() {
			emp := fx.Employee("WORKING_ONSITE")
			current := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2024, 1, 1), testdb.Date(2024, 12, 31), 500000, nil)

			got, err := service.GetContractByID(ctx, current.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(contractDatamodel.StatusActive))
			Expect(queue.tasks).To(BeEmpty())
		})

		It("returns not found for an unknown id", func() {
			_, err := service.GetContractByID(ctx, 404)

			Expect(err).To(MatchError(internal.ErrContractNotFound))
		})
	})

	Describe("CreateContract", func() {
		var req contract.CreateContractRequest

		BeforeEach(func() {
			emp := fx.Employee("WORKING_ONSITE")
			req = contract.CreateContractRequest{
				EmployeeID:        emp.ID,
				Type:              "FULL_TIME",
				StartDate:         "2024-04-01",
				EndDate:           "2025-03-31",
				SignedDate:        "2024-03-20",
				DailySalaryAmount: 500000,
			}
		})

		It("creates an active contract with a generated code", func() {
			c, err := service.CreateContract(ctx, req)

			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).NotTo(BeZero())
			Expect(c.Status).To(Equal(contractDatamodel.StatusActive))
			Expect(c.Code).To(HavePrefix("CTR-20240401-"))
		})

		It("rejects a second active contract for the same employee", func() {
			_, err := service.CreateContract(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			req.StartDate, req.EndDate = "2025-04-01", "2026-03-31"
			_, err = service.CreateContract(ctx, req)

			Expect(err).To(MatchError(internal.ErrActiveContractExists))
		})

		It("allows a draft next to an active contract", func() {
			_, err := service.CreateContract(ctx, req)
			Expect(err).NotTo(HaveOccurred())

			req.Status = "DRAFT"
			_, err = service.CreateContract(ctx, req)

			Expect(err).NotTo(HaveOccurred())
		})

		DescribeTable("rejects invalid terms",
			func(mutate func(r *contract.CreateContractRequest), want error) {
				mutate(&req)
				_, err := service.CreateContract(ctx, req)
				Expect(errors.Is(err, want)).To(BeTrue(), "got %v", err)
			},
			Entry("end before start", func(r *contract.CreateContractRequest) { r.EndDate = "2024-03-01" }, internal.ErrInvalidContractDates),
			Entry("end equal to start", func(r *contract.CreateContractRequest) { r.EndDate = r.StartDate }, internal.ErrInvalidContractDates),
			Entry("signed after start", func(r *contract.CreateContractRequest) { r.SignedDate = "2024-04-02" }, internal.ErrInvalidContractDates),
			Entry("zero daily salary", func(r *contract.CreateContractRequest) { r.DailySalaryAmount = 0 }, internal.ErrInvalidContractAmount),
			Entry("negative allowance", func(r *contract.CreateContractRequest) { r.AllowanceAmount = testdb.Int64Ptr(-1) }, internal.ErrInvalidContractAmount),
		)

		It("reports every malformed field at once", func() {
			req.Type = "CONSULTANT"
			req.StartDate = "01-04-2024"

			_, err := service.CreateContract(ctx, req)

			Expect(err).To(MatchError(internal.NewValidationError("", internal.ErrCodeValidationFailed)))
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Details.(internal.ValidationErrors).Errors).To(HaveLen(2))
		})

		It("rejects an unknown employee", func() {
			req.EmployeeID = 999

			_, err := service.CreateContract(ctx, req)

			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("RenewContract", func() {
		It("flips the old contract to renewed and starts the new one the next day", func() {
			emp := fx.Employee("WORKING_ONSITE")
			old := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 4, 1), testdb.Date(2024, 3, 31), 500000, testdb.Int64Ptr(100000))

			renewed, err := service.RenewContract(ctx, old.ID, contract.RenewContractRequest{
				EndDate:           "2025-03-31",
				DailySalaryAmount: testdb.Int64Ptr(550000),
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed.Code).To(Equal(old.Code + "-R1"))
			Expect(renewed.StartDate).To(Equal(testdb.Date(2024, 4, 1)))
			Expect(renewed.Status).To(Equal(contractDatamodel.StatusActive))
			Expect(renewed.DailySalaryAmount).To(Equal(int64(550000)))
			Expect(*renewed.AllowanceAmount).To(Equal(int64(100000)))
			Expect(*renewed.RenewedFromID).To(Equal(old.ID))
			Expect(reload(old.ID).Status).To(Equal(contractDatamodel.StatusRenewed))
		})

		It("treats underscores in a code literally when numbering renewals", func() {
			// Given a different contract whose code only matches if "_" is a wildcard
			other := fx.Contract(fx.Employee("WORKING_ONSITE").ID, contractDatamodel.StatusRenewed, testdb.Date(2022, 1, 1), testdb.Date(2022, 12, 31), 500000, nil)
			Expect(db.Model(other).Update("code", "HQX2024-R1").Error).To(Succeed())

			emp := fx.Employee("WORKING_ONSITE")
			old := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 4, 1), testdb.Date(2024, 3, 31), 500000, nil)
			Expect(db.Model(old).Update("code", "HQ_2024").Error).To(Succeed())

			renewed, err := service.RenewContract(ctx, old.ID, contract.RenewContractRequest{EndDate: "2025-03-31"})

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed.Code).To(Equal("HQ_2024-R1"))
		})

		It("starts today when renewing a contract that already expired", func() {
			emp := fx.Employee("WORKING_ONSITE")
			old := fx.Contract(emp.ID, contractDatamodel.StatusExpired, testdb.Date(2023, 1, 1), testdb.Date(2023, 12, 31), 500000, nil)

			renewed, err := service.RenewContract(ctx, old.ID, contract.RenewContractRequest{EndDate: "2024-12-31"})

			Expect(err).NotTo(HaveOccurred())
			Expect(renewed.StartDate).To(Equal(today))
		})

		It("numbers successive renewals from the original code", func() {
			emp := fx.Employee("WORKING_ONSITE")
			old := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 4, 1), testdb.Date(2024, 3, 31), 500000, nil)

			first, err := service.RenewContract(ctx, old.ID, contract.RenewContractRequest{EndDate: "2025-03-31"})
			Expect(err).NotTo(HaveOccurred())
			second, err := service.RenewContract(ctx, first.ID, contract.RenewContractRequest{EndDate: "2026-03-31"})
			Expect(err).NotTo(HaveOccurred())

			Expect(second.Code).To(Equal(old.Code + "-R2"))
		})

		It("refuses to renew a draft", func() {
			emp := fx.Employee("WORKING_ONSITE")
			draft := fx.Contract(emp.ID, contractDatamodel.StatusDraft, testdb.Date(2024, 4, 1), testdb.Date(2025, 3, 31), 500000, nil)

			_, err := service.RenewContract(ctx, draft.ID, contract.RenewContractRequest{EndDate: "2026-03-31"})

			Expect(err).To(MatchError(internal.ErrContractNotRenewable))
		})

		It("refuses an end date that does not follow the new start", func() {
			emp := fx.Employee("WORKING_ONSITE")
			old := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 4, 1), testdb.Date(2024, 3, 31), 500000, nil)

			_, err := service.RenewContract(ctx, old.ID, contract.RenewContractRequest{EndDate: "2024-04-01"})

			Expect(err).To(MatchError(internal.ErrInvalidContractDates))
			Expect(reload(old.ID).Status).To(Equal(contractDatamodel.StatusActive))
		})
	})

	Describe("ListExpiring", func() {
		It("lists active contracts ending inside the window", func() {
			emp := fx.Employee("WORKING_ONSITE")
			other := fx.Employee("WORKING_ONSITE")
			soon := fx.Contract(emp.ID, contractDatamodel.StatusActive, testdb.Date(2023, 4, 1), testdb.Date(2024, 3, 20), 500000, nil)
			fx.Contract(other.ID, contractDatamodel.StatusActive, testdb.Date(2023, 4, 1), testdb.Date(2024, 6, 30), 500000, nil)

			list, err := service.ListExpiring(ctx, 30)

			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(soon.ID))
		})
	})
})
