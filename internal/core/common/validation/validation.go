package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	errors "github.com/frahmantamala/helpdesk-console/internal"
	"github.com/frahmantamala/helpdesk-console/internal/core/common/optional"
)

const (
	DateLayout = "2006-01-02"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

// text extracts the string a form field carries. ok is false when the
// field holds nothing to check (absent, null or a nil pointer).
func text(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case optional.Value[string]:
		return v.Get()
	}
	return "", false
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case int64:
			if v == 0 {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeRequired)
			}
			return nil
		case time.Time:
			if v.IsZero() {
				return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeRequired)
			}
			return nil
		}
		s, ok := text(value)
		if !ok || strings.TrimSpace(s) == "" {
			return fv.fail(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeRequired)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if s, ok := text(value); ok && len(strings.TrimSpace(s)) < min {
			return fv.fail(fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if s, ok := text(value); ok && len(s) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max), errors.ErrCodeTooLong)
		}
		return nil
	})
	return fv
}

// Decimal accepts a blank value; anything else must parse as a number.
func (fv *FieldValidator) Decimal() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := text(value)
		if !ok || strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := ParseDecimal(s); err != nil {
			return fv.fail(fmt.Sprintf("%s must be a decimal number", fv.FieldName), errors.ErrCodeInvalidDecimal)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) NonNegative() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := text(value)
		if !ok {
			return nil
		}
		if n, err := ParseDecimal(s); err == nil && n < 0 {
			return fv.fail(fmt.Sprintf("%s must not be negative", fv.FieldName), errors.ErrCodeInvalidValue)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Integer() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := text(value)
		if !ok || strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
			return fv.fail(fmt.Sprintf("%s must be a whole number", fv.FieldName), errors.ErrCodeInvalidInteger)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Date() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := text(value)
		if !ok || strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := time.Parse(DateLayout, strings.TrimSpace(s)); err != nil {
			return fv.fail(fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fv.FieldName), errors.ErrCodeInvalidDate)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Timestamp() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := text(value)
		if !ok || strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err != nil {
			return fv.fail(fmt.Sprintf("%s must be an RFC 3339 timestamp", fv.FieldName), errors.ErrCodeInvalidDate)
		}
		return nil
	})
	return fv
}

// OneOf accepts a blank value; use Required to reject it.
func (fv *FieldValidator) OneOf(values ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		s, ok := text(value)
		if !ok || s == "" {
			return nil
		}
		for _, allowed := range values {
			if s == allowed {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of %s", fv.FieldName, strings.Join(values, ", ")), errors.ErrCodeInvalidValue)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field and reports all failures at once. A field
// stops at its first failing validator.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ParseDecimal parses a finite decimal. NaN, infinities and values out of
// float64 range are rejected.
func ParseDecimal(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return n, nil
}

// DecimalValue converts a validated form input. Blank input becomes Null.
func DecimalValue(in optional.Value[string]) optional.Value[float64] {
	in = optional.Blank(in)
	if s, ok := in.Get(); ok {
		n, _ := ParseDecimal(s)
		return optional.Of(n)
	}
	return optional.Map(in, func(string) float64 { return 0 })
}

func IntegerValue(in optional.Value[string]) optional.Value[int64] {
	in = optional.Blank(in)
	if s, ok := in.Get(); ok {
		n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		return optional.Of(n)
	}
	return optional.Map(in, func(string) int64 { return 0 })
}

func DateValue(in optional.Value[string]) optional.Value[time.Time] {
	in = optional.Blank(in)
	if s, ok := in.Get(); ok {
		t, _ := time.Parse(DateLayout, strings.TrimSpace(s))
		return optional.Of(t)
	}
	return optional.Map(in, func(string) time.Time { return time.Time{} })
}

func TimestampValue(in optional.Value[string]) optional.Value[time.Time] {
	in = optional.Blank(in)
	if s, ok := in.Get(); ok {
		t, _ := time.Parse(time.RFC3339, strings.TrimSpace(s))
		return optional.Of(t.UTC())
	}
	return optional.Map(in, func(string) time.Time { return time.Time{} })
}

// TextValue trims a string input and treats blank as Null.
func TextValue(in optional.Value[string]) optional.Value[string] {
	return optional.Map(optional.Blank(in), strings.TrimSpace)
}
