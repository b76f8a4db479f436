package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nicolas-R-Dev/vaudoise-api-factory/internal/platform/apierr"
)

// ErrorBody is the uniform error envelope:
// {timestamp, status, error, message, errors?}.
type ErrorBody struct {
	Timestamp string             `json:"timestamp"`
	Status    int                `json:"status"`
	Error     string             `json:"error"`
	Message   string             `json:"message,omitempty"`
	Errors    []apierr.FieldError `json:"errors,omitempty"`
}

// RespondError maps any *apierr.Error to its envelope; everything else is a
// 500 so internal details never leak to clients.
func RespondError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		c.JSON(ae.Status, ErrorBody{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Status:    ae.Status,
			Error:     ae.Code,
			Message:   ae.Message,
			Errors:    ae.Fields,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    http.StatusInternalServerError,
		Error:     apierr.CodeInternal,
		Message:   "internal error",
	})
}

// RespondBadRequest is the generic 400 for unreadable bodies and malformed
// path/query values, with no field detail.
func RespondBadRequest(c *gin.Context, message string) {
	RespondError(c, apierr.BadRequest(message))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
