package attendance

import (
	attendanceDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/attendance"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
)

type GenerateReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type DetailResponse struct {
	EmployeeID    int64 `json:"employee_id"`
	LeaveDays     int   `json:"leave_days"`
	OverLeaveDays int   `json:"over_leave_days"`
}

type ReportResponse struct {
	ID             int64            `json:"id"`
	Month          int              `json:"month"`
	Year           int              `json:"year"`
	Period         string           `json:"period"`
	DetailsCreated int              `json:"details_created,omitempty"`
	Details        []DetailResponse `json:"details"`
}

func ToReportResponse(res *Result) ReportResponse {
	resp := ReportResponse{
		ID:             res.Report.ID,
		Month:          res.Report.Month,
		Year:           res.Report.Year,
		Period:         period.Period{Month: res.Report.Month, Year: res.Report.Year}.String(),
		DetailsCreated: res.DetailsCreated,
		Details:        make([]DetailResponse, 0, len(res.Details)),
	}
	for _, d := range res.Details {
		resp.Details = append(resp.Details, toDetailResponse(d))
	}
	return resp
}

func toDetailResponse(d *attendanceDatamodel.AttendanceReportDetail) DetailResponse {
	return DetailResponse{
		EmployeeID:    d.EmployeeID,
		LeaveDays:     d.LeaveDays,
		OverLeaveDays: d.OverLeaveDays,
	}
}
