package utils

import (
	"github.com/go-playground/validator/v10"
)

// Validate is the shared validator instance for request DTOs.
var Validate = validator.New()

// ValidationErrorMap flattens validator errors into field -> failed tag,
// suitable for a 400 response body.
func ValidationErrorMap(err error) map[string]string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "invalid input"}
	}

	fields := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		fields[fieldErr.Field()] = fieldErr.Tag()
	}
	return fields
}
