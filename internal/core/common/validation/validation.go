package validation

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/frahmantamala/hr-payroll/internal"
)

const DateLayout = "2006-01-02"

type ValidatorFunc func(interface{}) *errors.ValidationError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

// ValidationBuilder collects every failing field instead of stopping at the
// first one, so a client can fix a request in one round trip.
type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{FieldName: name, Value: value}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string) *errors.ValidationError {
	return &errors.ValidationError{
		Field:   fv.FieldName,
		Message: message,
		Code:    string(errors.ErrCodeValidationFailed),
	}
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		case int64:
			if v == 0 {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		case *string:
			if v == nil || *v == "" {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName))
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinInt(min int64) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		switch v := value.(type) {
		case int64:
			if v < min {
				return fv.fail(fmt.Sprintf("%s must be at least %d", fv.FieldName, min))
			}
		case *int64:
			if v != nil && *v < min {
				return fv.fail(fmt.Sprintf("%s must be at least %d", fv.FieldName, min))
			}
		}
		return nil
	})
	return fv
}

// OneOf accepts an empty string, pair it with Required when the field is
// mandatory.
func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of %s", fv.FieldName, strings.Join(allowed, ", ")))
	})
	return fv
}

// Date checks a YYYY-MM-DD string. Empty values pass.
func (fv *FieldValidator) Date() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.ValidationError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return fv.fail(fmt.Sprintf("%s must be a YYYY-MM-DD date", fv.FieldName))
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.ValidationError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate returns nil or a VALIDATION_FAILED error listing each failing
// field once, with the first failing rule's message.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				validationErrors = append(validationErrors, *err)
				break
			}
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ParseDate parses a value already checked with Date.
func ParseDate(value string) time.Time {
	t, _ := time.Parse(DateLayout, value)
	return t
}
