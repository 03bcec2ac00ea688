package payroll_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/payroll"
)

var _ = Describe("PayslipRenderer", func() {
	var slip payroll.Payslip

	BeforeEach(func() {
		slip = payroll.Payslip{
			Period:   period.Period{Month: 3, Year: 2024},
			Currency: "IDR",
			Employee: &employeeDatamodel.Employee{ID: 1, Code: "EMP-001", FullName: "Siti Rahma"},
			Detail: &payrollDatamodel.PayrollReportDetail{
				BasicSalaryAmount: 13000000,
				DeductionsAmount:  1500000,
				TotalSalaryAmount: 11500000,
				AllowancesAmount:  1000000,
				PerformanceRatio:  4.5,
			},
		}
	})

	It("adds allowances on top of the total salary for net pay", func() {
		Expect(slip.NetPay()).To(Equal(int64(12500000)))
	})

	It("renders a pdf document", func() {
		var buf bytes.Buffer

		err := payroll.NewPayslipRenderer("").Render(&buf, slip)

		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(HavePrefix("%PDF"))
	})

	It("writes the file under the period directory", func() {
		dir := GinkgoT().TempDir()

		path, err := payroll.NewPayslipRenderer(dir).WriteFile(slip)

		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "2024-03", "EMP-001.pdf")))
		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeNumerically(">", 0))
	})

	It("keeps a code with path separators inside the period directory", func() {
		dir := GinkgoT().TempDir()
		slip.Employee.Code = "../../EMP-009"

		path, err := payroll.NewPayslipRenderer(dir).WriteFile(slip)

		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(dir, "2024-03", "EMP-009.pdf")))
	})

	It("refuses a code that cannot name a file", func() {
		dir := GinkgoT().TempDir()
		slip.Employee.Code = "/"

		_, err := payroll.NewPayslipRenderer(dir).WriteFile(slip)

		Expect(err).To(MatchError(ContainSubstring("no usable code")))
		_, statErr := os.Stat(filepath.Join(dir, "2024-03"))
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("renders names with accented letters", func() {
		var buf bytes.Buffer
		slip.Employee.FullName = "Zoë Müller"

		Expect(payroll.NewPayslipRenderer("").Render(&buf, slip)).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", 0))
	})
})
