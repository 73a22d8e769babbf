package contact

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/domain/shared"
)

// Request is a contact-form submission from the storefront.
type Request struct {
	Name    string `json:"name" validate:"notblank"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"notblank"`
	Message string `json:"message" validate:"notblank,max=2000"`
}

// Service validates contact requests and delivers them through the
// notification channels. There is no upstream persistence for contacts;
// delivery is the whole operation.
type Service struct {
	notifier order.Notifier
	logger   *zap.Logger
}

func NewService(notifier order.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{notifier: notifier, logger: logger}
}

var validate = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return v
}

// Submit validates the request and fans it out to the notifiers.
func (s *Service) Submit(ctx context.Context, req Request) error {
	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return shared.ErrInvalidInput
		}
		errs := make(order.FieldErrors, 0, len(validationErrors))
		for _, e := range validationErrors {
			errs = append(errs, order.FieldError{
				Field:   e.Field(),
				Message: contactMessage(e),
			})
		}
		return errs
	}

	s.logger.Info("contact request received",
		zap.String("name", req.Name),
		zap.String("email", req.Email),
	)
	s.notifier.ContactReceived(ctx,
		strings.TrimSpace(req.Name),
		strings.TrimSpace(req.Email),
		strings.TrimSpace(req.Phone),
		strings.TrimSpace(req.Message),
	)
	return nil
}

func contactMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "This field cannot be blank"
	case "email":
		return "Invalid email format"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	default:
		return "Invalid value"
	}
}
