// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/AtRiskMedia/fanhub-go/internal/application/services"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/fanhub-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// statusFor maps a service error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized, services.ErrUnauthorized.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, services.ErrInvalidCredentials.Error()
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, services.ErrForbidden.Error()
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, services.ErrNotFound.Error()
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, services.ErrEmailTaken.Error()
	case errors.Is(err, services.ErrVariantRequired):
		return http.StatusUnprocessableEntity, services.ErrVariantRequired.Error()
	case errors.Is(err, services.ErrVendorUnavailable):
		return http.StatusServiceUnavailable, services.ErrVendorUnavailable.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeError records err on the marker and writes the mapped response.
// Server-side failures are logged on channel with the request id.
func writeError(c *gin.Context, logger *logging.ChanneledLogger, channel logging.Channel, marker *performance.Marker, op string, err error) {
	status, message := statusFor(err)
	marker.SetError(err)
	// refusals keep the message but only server faults count as failures
	marker.SetSuccess(status < http.StatusInternalServerError)

	log := logger.WithContext(channel, c.Request.Context()).With("operation", op, "status", status, "error", err.Error())
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error("Operation failed", "path", c.Request.URL.Path)
	} else {
		log.Debug("Request refused")
	}
	c.JSON(status, gin.H{"error": message})
}

// badRequest answers a body that failed to bind.
func badRequest(c *gin.Context, marker *performance.Marker, err error) {
	marker.SetError(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
}
