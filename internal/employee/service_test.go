package employee_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/core/database/testdb"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/employee"
	employeePostgres "github.com/frahmantamala/hr-payroll/internal/employee/postgres"
)

type failingRepository struct {
	employee.RepositoryAPI
}

func (failingRepository) ListEligible(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	return nil, errors.New("connection reset")
}

var _ = Describe("Service", func() {
	var (
		db      *gorm.DB
		fx      *testdb.Fixtures
		service *employee.Service
		logger  *slog.Logger
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())

		fx = testdb.NewFixtures(db, func(err error) { Expect(err).NotTo(HaveOccurred()) })
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		service = employee.NewService(employeePostgres.NewEmployeeRepository(store.New(db)), logger)
		ctx = context.Background()
	})

	AfterEach(func() {
		testdb.Close(db)
	})

	Describe("GetByID", func() {
		It("returns the employee", func() {
			emp := fx.Employee(employeeDatamodel.WorkStatusOnsite)

			got, err := service.GetByID(ctx, emp.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Code).To(Equal(emp.Code))
		})

		It("maps a missing row to employee not found", func() {
			_, err := service.GetByID(ctx, 404)

			Expect(err).To(MatchError(internal.ErrEmployeeNotFound))
		})
	})

	Describe("ListEligible", func() {
		It("excludes resigned, terminated and retired staff and orders by id", func() {
			// Given a mix of active and separated employees
			onsite := fx.Employee(employeeDatamodel.WorkStatusOnsite)
			fx.Employee(employeeDatamodel.WorkStatusResigned)
			onLeave := fx.Employee(employeeDatamodel.WorkStatusOnLeave)
			fx.Employee(employeeDatamodel.WorkStatusTerminated)
			remote := fx.Employee(employeeDatamodel.WorkStatusFromHome)
			fx.Employee(employeeDatamodel.WorkStatusRetired)

			// When
			got, err := service.ListEligible(ctx)

			// Then
			Expect(err).NotTo(HaveOccurred())
			ids := make([]int64, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			Expect(ids).To(Equal([]int64{onsite.ID, onLeave.ID, remote.ID}))
		})

		It("wraps repository failures", func() {
			service = employee.NewService(failingRepository{}, logger)

			_, err := service.ListEligible(ctx)

			Expect(err).To(MatchError(ContainSubstring("failed to list eligible employees")))
		})
	})
})
