package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"coursefolio/internal/app/models/dto"
	"coursefolio/internal/pkg/apperrors"
	"coursefolio/internal/pkg/logger"
)

// HandleAPIError maps service errors to the API's error envelope. Unknown
// errors become an opaque 500; their details go to the log, not the client.
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	details := ""
	if errors.As(err, &custom) && custom.Message != "" {
		details = custom.Message
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		c.JSON(400, dto.NewErrorResponse("Validation failed").WithDetails(details))
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(400, dto.NewErrorResponse("Bad request").WithDetails(details))
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(401, dto.NewErrorResponse("Invalid credentials"))
	case errors.Is(err, apperrors.ErrSessionExpired),
		errors.Is(err, apperrors.ErrSessionNotFound),
		errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(401, dto.NewErrorResponse("Invalid session"))
	case errors.Is(err, apperrors.ErrAssignmentNotFound),
		errors.Is(err, apperrors.ErrCourseNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(404, dto.NewErrorResponse("Resource not found").WithDetails(details))
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(409, dto.NewErrorResponse("Conflict").WithDetails(details))
	default:
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		c.JSON(500, dto.NewErrorResponse("Internal server error"))
	}
}
