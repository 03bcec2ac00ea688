package payroll

import "time"

// ReportStatus tracks how far generation got for a period. Generation runs in
// one transaction, so committed rows are only ever DETAILS_POPULATED; the
// intermediate states are visible inside that transaction only.
type ReportStatus string

const (
	ReportStatusCreated             ReportStatus = "REPORT_CREATED"
	ReportStatusAttendanceGenerated ReportStatus = "ATTENDANCE_GENERATED"
	ReportStatusDetailsPopulated    ReportStatus = "DETAILS_POPULATED"
)

type PayrollReport struct {
	ID          int64        `json:"id" gorm:"primaryKey"`
	Month       int          `json:"month" gorm:"column:month;not null;uniqueIndex:idx_payroll_reports_period"`
	Year        int          `json:"year" gorm:"column:year;not null;uniqueIndex:idx_payroll_reports_period"`
	Status      ReportStatus `json:"status" gorm:"column:status;not null"`
	DetailCount int          `json:"detail_count" gorm:"column:detail_count;not null;default:0"`
	Currency    string       `json:"currency" gorm:"column:currency;not null"`
	CreatedAt   time.Time    `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (PayrollReport) TableName() string {
	return "payroll_reports"
}

type PayrollReportDetail struct {
	ID                        int64     `json:"id" gorm:"primaryKey"`
	PayrollReportID           int64     `json:"payroll_report_id" gorm:"column:payroll_report_id;not null;uniqueIndex:idx_payroll_details_report_employee"`
	EmployeeID                int64     `json:"employee_id" gorm:"column:employee_id;not null;uniqueIndex:idx_payroll_details_report_employee"`
	ContractID                int64     `json:"contract_id" gorm:"column:contract_id;not null"`
	AttendanceReportDetailID  int64     `json:"attendance_report_detail_id" gorm:"column:attendance_report_detail_id;not null"`
	PerformanceReportDetailID int64     `json:"performance_report_detail_id" gorm:"column:performance_report_detail_id;not null"`
	BasicSalaryAmount         int64     `json:"basic_salary_amount" gorm:"column:basic_salary_amount;not null"`
	AllowancesAmount          int64     `json:"allowances_amount" gorm:"column:allowances_amount;not null"`
	DeductionsAmount          int64     `json:"deductions_amount" gorm:"column:deductions_amount;not null"`
	PerformanceRatio          float64   `json:"performance_ratio" gorm:"column:performance_ratio;not null"`
	TotalSalaryAmount         int64     `json:"total_salary_amount" gorm:"column:total_salary_amount;not null"`
	CreatedAt                 time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PayrollReportDetail) TableName() string {
	return "payroll_report_details"
}
