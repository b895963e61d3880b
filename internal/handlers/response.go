package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gigpost-backend/internal/services"
)

type APIError struct {
	Message    string               `json:"message"`
	Code       string               `json:"code,omitempty"`
	Violations []services.Violation `json:"violations,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError translates a command error into its HTTP shape. Errors
// that are not command errors fall through as a 500.
func RespondError(c *gin.Context, err error) {
	var cmdErr *services.CommandError
	if !errors.As(err, &cmdErr) {
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: APIError{Message: err.Error()},
		})
		return
	}
	c.JSON(statusFor(cmdErr.Kind), ErrorEnvelope{
		Error: APIError{
			Message:    cmdErr.Message,
			Code:       cmdErr.Code,
			Violations: cmdErr.Violations,
		},
	})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindInvalidState:
		return http.StatusUnprocessableEntity
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
