// internal/handlers/helpers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wekeza/sacco-backend/internal/apperr"
	"github.com/wekeza/sacco-backend/internal/utils"
)

// handleServiceError maps the service layer's typed errors onto HTTP status
// codes and the response envelope. Unknown errors are logged and surface as
// a generic 500 so internals never leak to clients.
func handleServiceError(c *gin.Context, err error) {
	var (
		validationErr *apperr.ValidationError
		notFoundErr   *apperr.NotFoundError
		transitionErr *apperr.InvalidTransitionError
		conflictErr   *apperr.ConflictError
		immutableErr  *apperr.ImmutableFieldError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Message, gin.H{
			"field": validationErr.Field,
		})
	case errors.As(err, &notFoundErr):
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error(), nil)
	case errors.As(err, &transitionErr):
		utils.ErrorResponse(c, http.StatusConflict, "INVALID_TRANSITION", transitionErr.Error(), gin.H{
			"from":  transitionErr.From,
			"event": transitionErr.Event,
		})
	case errors.As(err, &conflictErr):
		utils.ConflictResponse(c, conflictErr.Message)
	case errors.As(err, &immutableErr):
		utils.ErrorResponse(c, http.StatusConflict, "IMMUTABLE_FIELD", immutableErr.Error(), gin.H{
			"field": immutableErr.Field,
		})
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// parseUUIDParam reads a path parameter as a UUID, writing a 400 on failure.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name+" parameter", nil)
		return uuid.Nil, false
	}
	return id, true
}
