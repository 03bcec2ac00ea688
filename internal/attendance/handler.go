package attendance

import (
	"context"
	"net/http"

	"github.com/frahmantamala/hr-payroll/internal/core/period"
	"github.com/frahmantamala/hr-payroll/internal/transport"
)

type ServiceAPI interface {
	CreateAttendanceReport(ctx context.Context, p period.Period) (*Result, error)
	GetReport(ctx context.Context, p period.Period) (*Result, error)
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

func (h *Handler) CreateAttendanceReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if appErr := h.DecodeJSON(r, &req, false); appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	p, err := period.New(req.Month, req.Year)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.CreateAttendanceReport(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToReportResponse(result))
}

// GetAttendanceReport reads ?month=&year=.
func (h *Handler) GetAttendanceReport(w http.ResponseWriter, r *http.Request) {
	month, appErr := h.IntQuery(r, "month", 0)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	year, appErr := h.IntQuery(r, "year", 0)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	p, err := period.New(month, year)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	result, err := h.Service.GetReport(r.Context(), p)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToReportResponse(result))
}
