package order

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes a single field failing local validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the full set of field errors from one validation pass.
// Fields are validated independently so the user sees every problem at once.
type FieldErrors []FieldError

// Error implements the error interface
func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// MinQuantitySqm is the smallest orderable area.
const MinQuantitySqm = 0.1

// draftFields is the validation view of a Draft. Quantity is checked as a
// float only for the range rule; pricing always uses the decimal value.
type draftFields struct {
	CustomerName  string  `json:"customer_name" validate:"notblank"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone string  `json:"customer_phone" validate:"notblank"`
	QuantitySqm   float64 `json:"quantity_sqm" validate:"required,gte=0.1"`
}

var validate = newDraftValidator()

func newDraftValidator() *validator.Validate {
	v := validator.New()

	// Report json tag names so field errors line up with the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// notblank: non-empty after trimming whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

func validateDraftFields(d *Draft) FieldErrors {
	fields := draftFields{
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		CustomerPhone: d.CustomerPhone,
		QuantitySqm:   d.QuantitySqm.InexactFloat64(),
	}

	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return FieldErrors{{Field: "", Message: "Invalid input"}}
	}

	errs := make(FieldErrors, 0, len(validationErrors))
	for _, e := range validationErrors {
		errs = append(errs, FieldError{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return errs
}

// validationMessage returns a human-readable message for a field error
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "This field cannot be blank"
	case "email":
		return "Invalid email format"
	case "gte":
		return "Must be at least " + e.Param()
	default:
		return "Invalid value"
	}
}
