package performance_test

import (
	"context"
	"errors"
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/hr-payroll/internal"
	performanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/performance"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/performance"
)

type mockPerformanceRepository struct {
	upserts   int
	upsertErr error
}

func (m *mockPerformanceRepository) FindDetail(ctx context.Context, employeeID int64, p period.Period) (*performanceDatamodel.PerformanceReportDetail, error) {
	return nil, nil
}

func (m *mockPerformanceRepository) UpsertScore(ctx context.Context, employeeID int64, p period.Period, score float64) (*performanceDatamodel.PerformanceReportDetail, error) {
	if m.upsertErr != nil {
		return nil, m.upsertErr
	}
	m.upserts++
	return &performanceDatamodel.PerformanceReportDetail{ID: 1, EmployeeID: employeeID, AverageScore: &score}, nil
}

var _ = Describe("Recorder", func() {
	var (
		repo     *mockPerformanceRepository
		recorder *performance.Recorder
		march    period.Period
	)

	BeforeEach(func() {
		repo = &mockPerformanceRepository{}
		recorder = performance.NewRecorder(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
		march = period.Period{Month: 3, Year: 2024}
	})

	It("stores the score for the period", func() {
		detail, err := recorder.RecordAverageScore(context.Background(), 3, march, 0.85)

		Expect(err).NotTo(HaveOccurred())
		Expect(*detail.AverageScore).To(BeNumerically("~", 0.85, 1e-9))
		Expect(repo.upserts).To(Equal(1))
	})

	It("rejects negative scores", func() {
		_, err := recorder.RecordAverageScore(context.Background(), 3, march, -0.1)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		Expect(repo.upserts).To(BeZero())
	})

	It("rejects an invalid period", func() {
		_, err := recorder.RecordAverageScore(context.Background(), 3, period.Period{Month: 0, Year: 2024}, 1)

		Expect(err).To(MatchError(internal.ErrInvalidPeriod))
	})

	It("propagates storage errors", func() {
		repo.upsertErr = errors.New("disk full")

		_, err := recorder.RecordAverageScore(context.Background(), 3, march, 1)

		Expect(err).To(MatchError("disk full"))
	})
})
