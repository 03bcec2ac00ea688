package payroll

import (
	"time"

	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
)

// GenerateReportRequest overrides the current period when both fields are set.
type GenerateReportRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r GenerateReportRequest) IsEmpty() bool {
	return r.Month == 0 && r.Year == 0
}

func (r GenerateReportRequest) Period() (period.Period, error) {
	return period.New(r.Month, r.Year)
}

type ReportResponse struct {
	ID          int64  `json:"id"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Period      string `json:"period"`
	Status      string `json:"status"`
	DetailCount int    `json:"detail_count"`
	Currency    string `json:"currency"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func ToReportResponse(r *payrollDatamodel.PayrollReport) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		Month:       r.Month,
		Year:        r.Year,
		Period:      period.Period{Month: r.Month, Year: r.Year}.String(),
		Status:      string(r.Status),
		DetailCount: r.DetailCount,
		Currency:    r.Currency,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
	}
}

type GenerationResponse struct {
	Report         ReportResponse `json:"report"`
	DetailsCreated int            `json:"details_created"`
	Skipped        map[string]int `json:"skipped"`
}

func ToGenerationResponse(res *GenerationResult) GenerationResponse {
	skipped := make(map[string]int, len(res.Skipped))
	for reason, n := range res.Skipped {
		skipped[string(reason)] = n
	}
	return GenerationResponse{
		Report:         ToReportResponse(res.Report),
		DetailsCreated: res.DetailsCreated,
		Skipped:        skipped,
	}
}

type ReportListResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type DetailListResponse struct {
	ReportID int64           `json:"report_id"`
	Details  []DetailSummary `json:"details"`
}
