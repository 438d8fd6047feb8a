package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/novelenchant/enchant/pkg/config"
	"github.com/novelenchant/enchant/pkg/repo"
	"github.com/novelenchant/enchant/pkg/scheduler"
)

// Error codes from §6: VALIDATION_ERROR, NOT_FOUND, CONFLICT,
// UPSTREAM_ERROR, PROCESSING_ERROR, INTERNAL.
const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "NOT_FOUND"
	codeConflict   = "CONFLICT"
	codeUpstream   = "UPSTREAM_ERROR"
	codeProcessing = "PROCESSING_ERROR"
	codeInternal   = "INTERNAL"
)

// respondError maps a service-layer error to an HTTP status and the
// uniform error envelope, the way the reference service's
// mapServiceError translates sentinel/typed errors to a response.
func respondError(c *gin.Context, err error) {
	var validErr *config.ValidationError
	switch {
	case errors.As(err, &validErr):
		c.JSON(http.StatusBadRequest, errEnvelope(codeValidation, err.Error(), ""))
	case errors.Is(err, repo.ErrNotFound):
		c.JSON(http.StatusNotFound, errEnvelope(codeNotFound, "resource not found", ""))
	case errors.Is(err, repo.ErrNoJobsReady):
		c.JSON(http.StatusConflict, errEnvelope(codeConflict, err.Error(), ""))
	case errors.Is(err, scheduler.ErrJobNotFailed):
		c.JSON(http.StatusConflict, errEnvelope(codeConflict, err.Error(), ""))
	default:
		slog.Error("unhandled API error", "error", err)
		c.JSON(http.StatusInternalServerError, errEnvelope(codeInternal, "internal server error", ""))
	}
}

// badRequest writes a validation error directly, for request-binding
// failures that never reach a service layer.
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errEnvelope(codeValidation, message, ""))
}
