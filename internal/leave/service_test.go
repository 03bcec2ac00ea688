package leave_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-payroll/internal"
	leaveDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/leave"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/leave"
)

type mockLeaveRepository struct {
	applications []*leaveDatamodel.LeaveApplication
	err          error

	gotEmployeeID int64
	gotFrom       time.Time
	gotTo         time.Time
}

func (m *mockLeaveRepository) FindApprovedInWindow(ctx context.Context, employeeID int64, from, to time.Time) ([]*leaveDatamodel.LeaveApplication, error) {
	m.gotEmployeeID, m.gotFrom, m.gotTo = employeeID, from, to
	if m.err != nil {
		return nil, m.err
	}
	return m.applications, nil
}

var _ = Describe("QuotaCalculator", func() {
	var (
		repo       *mockLeaveRepository
		calculator *leave.QuotaCalculator
		ctx        context.Context
		feb        period.Period
	)

	BeforeEach(func() {
		repo = &mockLeaveRepository{}
		calculator = leave.NewQuotaCalculator(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
		feb = period.Period{Month: 2, Year: 2024}
	})

	It("queries the inclusive leap-year window", func() {
		_, err := calculator.ComputeLeaveUsage(ctx, 42, feb)

		Expect(err).NotTo(HaveOccurred())
		Expect(repo.gotEmployeeID).To(Equal(int64(42)))
		Expect(repo.gotFrom).To(Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
		Expect(repo.gotTo).To(Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	})

	It("returns zero usage when there are no approved applications", func() {
		usage, err := calculator.ComputeLeaveUsage(ctx, 1, feb)

		Expect(err).NotTo(HaveOccurred())
		Expect(usage).To(Equal(leave.Usage{}))
	})

	It("flags days beyond the quota", func() {
		max := 2
		lt := &leaveDatamodel.LeaveType{ID: 1, Name: "Sick Leave", MaxDays: &max}
		repo.applications = []*leaveDatamodel.LeaveApplication{{
			LeaveTypeID: 1,
			LeaveType:   lt,
			StartDate:   time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		}}

		usage, err := calculator.ComputeLeaveUsage(ctx, 1, feb)

		Expect(err).NotTo(HaveOccurred())
		Expect(usage).To(Equal(leave.Usage{LeaveDays: 3, OverLeaveDays: 1}))
	})

	It("rejects an invalid period without touching the repository", func() {
		_, err := calculator.ComputeLeaveUsage(ctx, 1, period.Period{Month: 13, Year: 2024})

		Expect(err).To(MatchError(internal.ErrInvalidPeriod))
		Expect(repo.gotEmployeeID).To(BeZero())
	})

	It("wraps repository failures", func() {
		repo.err = errors.New("connection reset")

		_, err := calculator.ComputeLeaveUsage(ctx, 5, feb)

		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("employee 5"))
		Expect(errors.Is(err, repo.err)).To(BeTrue())
	})

	It("fails loudly when a leave type has no quota", func() {
		repo.applications = []*leaveDatamodel.LeaveApplication{{
			LeaveTypeID: 9,
			LeaveType:   &leaveDatamodel.LeaveType{ID: 9, Name: "Broken"},
			StartDate:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}}

		_, err := calculator.ComputeLeaveUsage(ctx, 1, feb)

		Expect(errors.Is(err, internal.ErrDataIntegrityFault)).To(BeTrue())
	})
})
