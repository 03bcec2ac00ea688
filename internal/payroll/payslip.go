package payroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/frahmantamala/hr-payroll/internal"
	employeeDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/employee"
	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/jung-kurt/gofpdf"
)

type Payslip struct {
	Period   period.Period
	Currency string
	Employee *employeeDatamodel.Employee
	Detail   *payrollDatamodel.PayrollReportDetail
}

// NetPay is what the employee receives: total salary plus allowances.
func (p Payslip) NetPay() int64 {
	return p.Detail.TotalSalaryAmount + p.Detail.AllowancesAmount
}

type PayslipRenderer struct {
	dir string
}

func NewPayslipRenderer(dir string) *PayslipRenderer {
	return &PayslipRenderer{dir: dir}
}

func (r *PayslipRenderer) Render(w io.Writer, slip Payslip) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	// core fonts are cp1252, names are UTF-8
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Employee: %s (%s)", slip.Employee.FullName, slip.Employee.Code)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		slip.Period.FirstDay().Format("2006-01-02"),
		slip.Period.LastDay().Format("2006-01-02")))
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount int64
	}{
		{"Basic salary", slip.Detail.BasicSalaryAmount},
		{"Deductions", -slip.Detail.DeductionsAmount},
		{"Total salary", slip.Detail.TotalSalaryAmount},
		{"Allowances", slip.Detail.AllowancesAmount},
	}
	for _, l := range lines {
		pdf.CellFormat(60, 8, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, FormatAmount(l.amount, slip.Currency), "", 1, "R", false, 0, "")
	}
	pdf.CellFormat(60, 8, "Performance ratio", "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, strconv.FormatFloat(slip.Detail.PerformanceRatio, 'f', 2, 64), "", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 8, "Net pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, FormatAmount(slip.NetPay(), slip.Currency), "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}

// WriteFile renders into <dir>/<yyyy-mm>/<employee code>.pdf and returns the
// path. Nothing is written when rendering fails.
func (r *PayslipRenderer) WriteFile(slip Payslip) (string, error) {
	name := filepath.Base(filepath.Clean("/" + slip.Employee.Code))
	if name == "/" || name == "." {
		return "", fmt.Errorf("employee %d has no usable code for a payslip file name", slip.Employee.ID)
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, slip); err != nil {
		return "", fmt.Errorf("failed to render payslip: %w", err)
	}

	dir := filepath.Join(r.dir, slip.Period.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create payslip dir: %w", err)
	}

	path := filepath.Join(dir, name+".pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write payslip file: %w", err)
	}
	return path, nil
}

// FormatAmount groups thousands, e.g. "IDR 11,500,000".
func FormatAmount(amount int64, currency string) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	if currency == "" {
		return out
	}
	return currency + " " + out
}

func (s *Service) loadPayslip(ctx context.Context, reportID, employeeID int64) (Payslip, error) {
	report, err := s.deps.Repo.GetReportByID(ctx, reportID)
	if err != nil {
		return Payslip{}, err
	}
	detail, err := s.deps.Repo.FindDetail(ctx, reportID, employeeID)
	if err != nil {
		return Payslip{}, err
	}
	if detail == nil {
		return Payslip{}, internal.ErrPayrollDetailNotFound
	}
	emp, err := s.deps.Employees.GetByID(ctx, employeeID)
	if err != nil {
		return Payslip{}, err
	}
	return Payslip{
		Period:   period.Period{Month: report.Month, Year: report.Year},
		Currency: report.Currency,
		Employee: emp,
		Detail:   detail,
	}, nil
}

// RenderPayslip streams the employee's payslip PDF for the report to w.
func (s *Service) RenderPayslip(ctx context.Context, reportID, employeeID int64, w io.Writer) error {
	slip, err := s.loadPayslip(ctx, reportID, employeeID)
	if err != nil {
		return err
	}
	return s.deps.Payslips.Render(w, slip)
}

// GeneratePayslip writes the payslip PDF under the payslip dir and returns
// its path.
func (s *Service) GeneratePayslip(ctx context.Context, reportID, employeeID int64) (string, error) {
	slip, err := s.loadPayslip(ctx, reportID, employeeID)
	if err != nil {
		return "", err
	}
	path, err := s.deps.Payslips.WriteFile(slip)
	if err != nil {
		s.logger.Error("payslip generation failed", "report_id", reportID, "employee_id", employeeID, "error", err)
		return "", err
	}
	s.logger.Info("payslip generated", "report_id", reportID, "employee_id", employeeID, "path", path)
	return path, nil
}
