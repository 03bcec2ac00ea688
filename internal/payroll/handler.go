package payroll

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	payrollDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/payroll"
	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/core/store"
	"github.com/frahmantamala/hr-payroll/internal/transport"
)

type ServiceAPI interface {
	CreatePayrollReport(ctx context.Context) (*GenerationResult, error)
	CreatePayrollReportForPeriod(ctx context.Context, p period.Period) (*GenerationResult, error)
	DeletePayrollReportByID(ctx context.Context, id int64) error
	GetPayrollReport(ctx context.Context, id int64) (*payrollDatamodel.PayrollReport, error)
	ListPayrollReports(ctx context.Context, page store.Page) ([]*payrollDatamodel.PayrollReport, int64, error)
	ListPayrollDetails(ctx context.Context, reportID int64) ([]DetailSummary, error)
	RenderPayslip(ctx context.Context, reportID, employeeID int64, w io.Writer) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(base *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     service,
	}
}

// CreatePayrollReport generates the current period, or the period in the
// body when one is given.
func (h *Handler) CreatePayrollReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if appErr := h.DecodeJSON(r, &req, true); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var (
		result *GenerationResult
		err    error
	)
	if req.IsEmpty() {
		result, err = h.Service.CreatePayrollReport(r.Context())
	} else {
		p, perr := req.Period()
		if perr != nil {
			h.HandleServiceError(w, r, perr)
			return
		}
		result, err = h.Service.CreatePayrollReportForPeriod(r.Context(), p)
	}
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, ToGenerationResponse(result))
}

func (h *Handler) ListPayrollReports(w http.ResponseWriter, r *http.Request) {
	limit, appErr := h.IntQuery(r, "limit", store.DefaultPageLimit)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	offset, appErr := h.IntQuery(r, "offset", 0)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	page := store.Page{Limit: limit, Offset: offset}.Normalize()

	reports, total, err := h.Service.ListPayrollReports(r.Context(), page)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp := ReportListResponse{
		Reports: make([]ReportResponse, 0, len(reports)),
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
	for _, report := range reports {
		resp.Reports = append(resp.Reports, ToReportResponse(report))
	}
	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	report, err := h.Service.GetPayrollReport(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToReportResponse(report))
}

func (h *Handler) ListPayrollDetails(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	details, err := h.Service.ListPayrollDetails(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, DetailListResponse{ReportID: id, Details: details})
}

// DownloadPayslip renders into memory first so a failure can still be
// answered with a JSON error.
func (h *Handler) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	reportID, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	employeeID, appErr := h.IDParam(r, "employeeID")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var buf bytes.Buffer
	if err := h.Service.RenderPayslip(r.Context(), reportID, employeeID, &buf); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%d-%d.pdf"`, reportID, employeeID))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.Error("failed to write payslip", "report_id", reportID, "employee_id", employeeID, "error", err)
	}
}

func (h *Handler) DeletePayrollReport(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	if err := h.Service.DeletePayrollReportByID(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
