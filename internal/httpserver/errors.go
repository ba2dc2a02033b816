package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ynotnow-storefront/internal/domain"
	"ynotnow-storefront/internal/gateway"
	customersvc "ynotnow-storefront/internal/service/customer"
)

// statusFor maps service errors onto HTTP statuses and the message shown to
// the shopper. Anything unrecognised is an upstream failure whose details
// stay in the log.
func statusFor(err error) (int, string) {
	var userErrs gateway.UserErrors
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, customersvc.ErrInvalidCredentials),
		errors.Is(err, customersvc.ErrSessionExpired),
		errors.Is(err, customersvc.ErrNotSignedIn):
		return http.StatusUnauthorized, err.Error()
	case errors.As(err, &userErrs):
		return http.StatusBadRequest, userErrs.Error()
	default:
		return http.StatusInternalServerError, "the store is unavailable right now, please try again"
	}
}

// writeError renders {"error": msg}. Server-side failures are logged.
func (h *handlers) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Printf("http: %s %s error=%v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": msg})
}
