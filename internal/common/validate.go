package common

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"metacircle/metasync/internal/models/dtos"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks req against its `validate` tags and itemizes every
// failed rule so the 400 body can name fields instead of returning one
// opaque message.
func ValidateStruct(req any) []dtos.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return []dtos.FieldError{{Field: "", Rule: "struct", Message: invalid.Error()}}
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []dtos.FieldError{{Field: "", Rule: "unknown", Message: err.Error()}}
	}

	out := make([]dtos.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fmt.Sprintf("failed on the '%s' rule", fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("failed on the '%s=%s' rule", fe.Tag(), fe.Param())
		}
		out = append(out, dtos.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: msg,
		})
	}
	return out
}
