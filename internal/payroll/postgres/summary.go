package postgres

import (
	"context"

	"github.com/frahmantamala/hr-payroll/internal/payroll"
	"github.com/jmoiron/sqlx"
)

// SummaryReader serves the payroll detail listing with plain SQL; it is read
// only and never joins a gorm transaction.
type SummaryReader struct {
	db *sqlx.DB
}

func NewSummaryReader(db *sqlx.DB) payroll.SummaryReader {
	return &SummaryReader{db: db}
}

const detailSummaryQuery = `
SELECT d.id AS detail_id,
       d.employee_id,
       e.code AS employee_code,
       e.full_name AS employee_name,
       d.contract_id,
       d.basic_salary_amount,
       d.allowances_amount,
       d.deductions_amount,
       d.performance_ratio,
       d.total_salary_amount,
       COALESCE(a.leave_days, 0) AS leave_days,
       COALESCE(a.over_leave_days, 0) AS over_leave_days
FROM payroll_report_details d
JOIN employees e ON e.id = d.employee_id
LEFT JOIN attendance_report_details a ON a.id = d.attendance_report_detail_id
WHERE d.payroll_report_id = ?
ORDER BY e.code ASC`

func (r *SummaryReader) ListDetailSummaries(ctx context.Context, reportID int64) ([]payroll.DetailSummary, error) {
	summaries := []payroll.DetailSummary{}
	if err := r.db.SelectContext(ctx, &summaries, r.db.Rebind(detailSummaryQuery), reportID); err != nil {
		return nil, err
	}
	return summaries, nil
}
