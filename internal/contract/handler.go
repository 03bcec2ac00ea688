package contract

import (
	"context"
	"net/http"

	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
	"github.com/frahmantamala/hr-payroll/internal/transport"
)

type ServiceAPI interface {
	UpdateExpiredContracts(ctx context.Context) (*ExpiryResult, error)
	GetContractByID(ctx context.Context, id int64) (*contractDatamodel.Contract, error)
	CreateContract(ctx context.Context, req CreateContractRequest) (*contractDatamodel.Contract, error)
	RenewContract(ctx context.Context, id int64, req RenewContractRequest) (*contractDatamodel.Contract, error)
	ListExpiring(ctx context.Context, withinDays int) ([]*contractDatamodel.Contract, error)
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

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req CreateContractRequest
	if appErr := h.DecodeJSON(r, &req, false); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	c, err := h.Service.CreateContract(r.Context(), req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToResponse(c))
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	c, err := h.Service.GetContractByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ToResponse(c))
}

func (h *Handler) RenewContract(w http.ResponseWriter, r *http.Request) {
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	var req RenewContractRequest
	if appErr := h.DecodeJSON(r, &req, false); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	c, err := h.Service.RenewContract(r.Context(), id, req)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ToResponse(c))
}

// ExpireContracts runs the expiry sweep on demand.
func (h *Handler) ExpireContracts(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.UpdateExpiredContracts(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	within, appErr := h.IntQuery(r, "within_days", 30)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	contracts, err := h.Service.ListExpiring(r.Context(), within)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	resp := make([]ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		resp = append(resp, ToResponse(c))
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"within_days": within,
		"contracts":   resp,
	})
}
