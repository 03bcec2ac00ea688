package contract

import (
	"time"

	"github.com/frahmantamala/hr-payroll/internal"
	"github.com/frahmantamala/hr-payroll/internal/core/common/validation"
	contractDatamodel "github.com/frahmantamala/hr-payroll/internal/core/datamodel/contract"
)

type CreateContractRequest struct {
	Code              string `json:"code"`
	EmployeeID        int64  `json:"employee_id"`
	Type              string `json:"type"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	SignedDate        string `json:"signed_date"`
	Status            string `json:"status"`
	DailySalaryAmount int64  `json:"daily_salary_amount"`
	AllowanceAmount   *int64 `json:"allowance_amount,omitempty"`
}

type RenewContractRequest struct {
	EndDate           string `json:"end_date"`
	DailySalaryAmount *int64 `json:"daily_salary_amount,omitempty"`
	AllowanceAmount   *int64 `json:"allowance_amount,omitempty"`
}

type ContractResponse struct {
	ID                int64  `json:"id"`
	Code              string `json:"code"`
	EmployeeID        int64  `json:"employee_id"`
	Type              string `json:"type"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	SignedDate        string `json:"signed_date"`
	Status            string `json:"status"`
	DailySalaryAmount int64  `json:"daily_salary_amount"`
	AllowanceAmount   *int64 `json:"allowance_amount,omitempty"`
	RenewedFromID     *int64 `json:"renewed_from_id,omitempty"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

func ToResponse(c *contractDatamodel.Contract) ContractResponse {
	return ContractResponse{
		ID:                c.ID,
		Code:              c.Code,
		EmployeeID:        c.EmployeeID,
		Type:              string(c.Type),
		StartDate:         c.StartDate.Format(validation.DateLayout),
		EndDate:           c.EndDate.Format(validation.DateLayout),
		SignedDate:        c.SignedDate.Format(validation.DateLayout),
		Status:            string(c.Status),
		DailySalaryAmount: c.DailySalaryAmount,
		AllowanceAmount:   c.AllowanceAmount,
		RenewedFromID:     c.RenewedFromID,
		CreatedAt:         c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         c.UpdatedAt.Format(time.RFC3339),
	}
}

var (
	contractTypes = []string{
		string(contractDatamodel.TypeFullTime), string(contractDatamodel.TypePartTime), string(contractDatamodel.TypeProbation),
		string(contractDatamodel.TypeInternship), string(contractDatamodel.TypeFreelance),
	}
	creatableStatuses = []string{
		string(contractDatamodel.StatusDraft), string(contractDatamodel.StatusPending), string(contractDatamodel.StatusActive),
	}
)

// Validate checks the request shape. Cross-field and cross-record rules are
// checked by ValidateTerms and the service.
func (r CreateContractRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("employee_id", r.EmployeeID).Required().MinInt(1)
	v.Field("type", r.Type).Required().OneOf(contractTypes...)
	v.Field("status", r.Status).OneOf(creatableStatuses...)
	v.Field("start_date", r.StartDate).Required().Date()
	v.Field("end_date", r.EndDate).Required().Date()
	v.Field("signed_date", r.SignedDate).Date()
	return v.Validate()
}

// ToModel validates the request and builds an unsaved contract. Status
// defaults to ACTIVE and the signed date to the start date.
func (r CreateContractRequest) ToModel() (*contractDatamodel.Contract, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	status := contractDatamodel.Status(r.Status)
	if status == "" {
		status = contractDatamodel.StatusActive
	}
	start := validation.ParseDate(r.StartDate)
	signed := start
	if r.SignedDate != "" {
		signed = validation.ParseDate(r.SignedDate)
	}

	c := &contractDatamodel.Contract{
		Code:              r.Code,
		EmployeeID:        r.EmployeeID,
		Type:              contractDatamodel.Type(r.Type),
		StartDate:         start,
		EndDate:           validation.ParseDate(r.EndDate),
		SignedDate:        signed,
		Status:            status,
		DailySalaryAmount: r.DailySalaryAmount,
		AllowanceAmount:   r.AllowanceAmount,
	}
	if err := ValidateTerms(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r RenewContractRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("end_date", r.EndDate).Required().Date()
	return v.Validate()
}

// ValidateTerms checks the invariants every stored contract satisfies.
func ValidateTerms(c *contractDatamodel.Contract) error {
	if !c.EndDate.After(c.StartDate) || c.SignedDate.After(c.StartDate) {
		return internal.ErrInvalidContractDates
	}
	if c.DailySalaryAmount <= 0 || (c.AllowanceAmount != nil && *c.AllowanceAmount < 0) {
		return internal.ErrInvalidContractAmount
	}
	return nil
}
