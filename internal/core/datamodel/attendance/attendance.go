package attendance

import "time"

type AttendanceReport struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Month     int       `json:"month" gorm:"column:month;not null;uniqueIndex:idx_attendance_reports_period"`
	Year      int       `json:"year" gorm:"column:year;not null;uniqueIndex:idx_attendance_reports_period"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (AttendanceReport) TableName() string {
	return "attendance_reports"
}

type AttendanceReportDetail struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	AttendanceReportID int64     `json:"attendance_report_id" gorm:"column:attendance_report_id;not null;uniqueIndex:idx_attendance_details_report_employee"`
	EmployeeID         int64     `json:"employee_id" gorm:"column:employee_id;not null;uniqueIndex:idx_attendance_details_report_employee"`
	LeaveDays          int       `json:"leave_days" gorm:"column:leave_days;not null"`
	OverLeaveDays      int       `json:"over_leave_days" gorm:"column:over_leave_days;not null"`
	CreatedAt          time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (AttendanceReportDetail) TableName() string {
	return "attendance_report_details"
}
