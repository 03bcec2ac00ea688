package performance

import "time"

type PerformanceReport struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Month     int       `json:"month" gorm:"column:month;not null;uniqueIndex:idx_performance_reports_period"`
	Year      int       `json:"year" gorm:"column:year;not null;uniqueIndex:idx_performance_reports_period"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PerformanceReport) TableName() string {
	return "performance_reports"
}

type PerformanceReportDetail struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	PerformanceReportID int64     `json:"performance_report_id" gorm:"column:performance_report_id;not null;uniqueIndex:idx_performance_details_report_employee"`
	EmployeeID          int64     `json:"employee_id" gorm:"column:employee_id;not null;uniqueIndex:idx_performance_details_report_employee"`
	AverageScore        *float64  `json:"average_score,omitempty" gorm:"column:average_score"`
	CreatedAt           time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (PerformanceReportDetail) TableName() string {
	return "performance_report_details"
}
