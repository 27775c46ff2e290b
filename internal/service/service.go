// Package service implements the application logic between the HTTP API
// and the store.
package service

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	domainerrors "github.com/spinlist/spinlist-server/internal/errors"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// formatValidationError converts validator errors into domain validation
// errors with readable messages. Multiple field failures are carried as
// details on a single error.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if domainerrors.As(err, &validationErrs) {
		messages := make([]string, 0, len(validationErrs))
		for _, e := range validationErrs {
			messages = append(messages, validationMessage(e))
		}
		switch len(messages) {
		case 0:
			return err
		case 1:
			return domainerrors.Validation(messages[0])
		default:
			return domainerrors.ValidationWithDetails("request validation failed", messages)
		}
	}
	return err
}

func validationMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param() + " characters"
	case "max":
		return field + " exceeds maximum length of " + e.Param() + " characters"
	default:
		return field + " is invalid"
	}
}
