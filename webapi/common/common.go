// Package common holds the response envelope, error mapping, request
// binding and upload intake shared by every handler package.
package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Envelope status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Response is the envelope of every API response.
type Response struct {
	Status  string `json:"status"`            // success or failed
	Message string `json:"message,omitempty"` // Human-readable explanation
	Data    any    `json:"data,omitempty"`    // Payload of a success
	Errors  any    `json:"errors,omitempty"`  // Field errors of a failure
}

var validate = newValidator()

// newValidator reports fields by their json or form name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
	return v
}

// SuccessResponseJSON writes a success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: StatusSuccess, Message: message, Data: data})
}

// ErrorResponseJSON writes a failure envelope. errs may be nil.
func ErrorResponseJSON(c *fiber.Ctx, status int, message string, errs any) error {
	return c.Status(status).JSON(Response{Status: StatusFailed, Message: message, Errors: errs})
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrUpstreamFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleError writes the failure envelope for err. Unexpected errors are
// logged with the route and reported without detail.
func HandleError(c *fiber.Ctx, err error) error {
	return HandleErrorWithStatus(c, err, ErrorToStatusCode(err))
}

// HandleErrorWithStatus is HandleError with an explicit status code.
func HandleErrorWithStatus(c *fiber.Ctx, err error, status int) error {
	if status >= fiber.StatusInternalServerError {
		log.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		if status == fiber.StatusBadGateway {
			return ErrorResponseJSON(c, status, "Upstream service unavailable", nil)
		}
		return ErrorResponseJSON(c, status, "Internal Server Error", nil)
	}
	return ErrorResponseJSON(c, status, message(err), nil)
}

// BindAndValidate parses the JSON or form body into T and validates it.
// On failure the 400 response is already written and nil is returned.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", nil)
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", fieldErrors(verrs))
		}
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", nil)
	}
	return &input, nil
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		switch fe.Tag() {
		case "required":
			out[name] = "is required"
		case "email":
			out[name] = "must be a valid email"
		case "min":
			out[name] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "max":
			out[name] = fmt.Sprintf("must be at most %s characters", fe.Param())
		case "gte":
			out[name] = fmt.Sprintf("must be at least %s", fe.Param())
		default:
			out[name] = fmt.Sprintf("failed on %s", fe.Tag())
		}
	}
	return out
}

// message prefers the user-facing text of a *domain.Error.
func message(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}
