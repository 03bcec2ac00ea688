package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized  ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden     ErrorType = "FORBIDDEN"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeDataIntegrity ErrorType = "DATA_INTEGRITY_ERROR"
	ErrorTypeInternal      ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidPeriod    ErrorCode = "INVALID_PERIOD"

	ErrCodePeriodAlreadyGenerated ErrorCode = "PERIOD_ALREADY_GENERATED"
	ErrCodeDataIntegrityFault     ErrorCode = "DATA_INTEGRITY_FAULT"

	ErrCodePayrollReportNotFound    ErrorCode = "PAYROLL_REPORT_NOT_FOUND"
	ErrCodePayrollDetailNotFound    ErrorCode = "PAYROLL_DETAIL_NOT_FOUND"
	ErrCodeAttendanceReportNotFound ErrorCode = "ATTENDANCE_REPORT_NOT_FOUND"
	ErrCodeEmployeeNotFound         ErrorCode = "EMPLOYEE_NOT_FOUND"

	ErrCodeContractNotFound      ErrorCode = "CONTRACT_NOT_FOUND"
	ErrCodeInvalidContractDates  ErrorCode = "INVALID_CONTRACT_DATES"
	ErrCodeActiveContractExists  ErrorCode = "ACTIVE_CONTRACT_EXISTS"
	ErrCodeContractNotRenewable  ErrorCode = "CONTRACT_NOT_RENEWABLE"
	ErrCodeInvalidContractAmount ErrorCode = "INVALID_CONTRACT_AMOUNT"

	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeForbidden    ErrorCode = "INSUFFICIENT_PERMISSIONS"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError carrying the same code, so sentinels below work
// with errors.Is even when the returned instance has its own cause or details.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of e wrapping cause. The receiver is left untouched
// so package-level sentinels stay immutable.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// WithDetails returns a copy of e carrying details.
func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewDataIntegrityError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeDataIntegrity,
		Code:       ErrCodeDataIntegrityFault,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

var (
	ErrInvalidPeriod          = NewValidationError("month must be between 1 and 12 and year must be valid", ErrCodeInvalidPeriod)
	ErrPeriodAlreadyGenerated = NewConflictError("report already generated for this period", ErrCodePeriodAlreadyGenerated)
	ErrDataIntegrityFault     = NewDataIntegrityError("data integrity fault")

	ErrPayrollReportNotFound    = NewNotFoundError("payroll report not found", ErrCodePayrollReportNotFound)
	ErrPayrollDetailNotFound    = NewNotFoundError("payroll detail not found", ErrCodePayrollDetailNotFound)
	ErrAttendanceReportNotFound = NewNotFoundError("attendance report not found", ErrCodeAttendanceReportNotFound)
	ErrEmployeeNotFound         = NewNotFoundError("employee not found", ErrCodeEmployeeNotFound)

	ErrContractNotFound      = NewNotFoundError("contract not found", ErrCodeContractNotFound)
	ErrInvalidContractDates  = NewValidationError("end date must be after start date and signed date must not be after start date", ErrCodeInvalidContractDates)
	ErrActiveContractExists  = NewConflictError("employee already has an active contract", ErrCodeActiveContractExists)
	ErrContractNotRenewable  = NewConflictError("contract cannot be renewed in its current status", ErrCodeContractNotRenewable)
	ErrInvalidContractAmount = NewValidationError("daily salary must be positive and allowance must not be negative", ErrCodeInvalidContractAmount)

	ErrInvalidToken = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrForbidden    = NewForbiddenError("insufficient permissions", ErrCodeForbidden)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
