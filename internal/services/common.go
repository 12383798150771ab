// internal/services/common.go
package services

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wekeza/sacco-backend/internal/apperr"
)

// validationError converts a validator.ValidationErrors into the typed
// taxonomy, reporting the first failing field.
func validationError(err error) error {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		e := ve[0]
		return apperr.Validation(strings.ToLower(e.Field()), e.Tag()+" constraint failed")
	}
	return apperr.Validation("", err.Error())
}
