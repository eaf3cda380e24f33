// Package handlers implements the media-scan HTTP handlers.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jonesrussell/north-cloud/media-scan/internal/apiclient"
	"github.com/jonesrussell/north-cloud/media-scan/internal/circuitbreaker"
	"github.com/jonesrussell/north-cloud/media-scan/internal/dashboard"
	"github.com/jonesrussell/north-cloud/media-scan/internal/logger"
	"github.com/jonesrussell/north-cloud/media-scan/internal/models"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/jonesrussell/north-cloud/media-scan/internal/scraping"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

var errBadParam = errors.New("invalid query parameter")

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var (
		apiErr *apiclient.APIError
		valErr *models.ValidationError
	)
	switch {
	case errors.As(err, &valErr),
		errors.Is(err, errBadParam),
		errors.Is(err, dashboard.ErrUnknownRule),
		errors.Is(err, scraping.ErrUnknownType),
		errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, apiclient.ErrNotFound),
		errors.Is(err, dashboard.ErrAlertNotFound),
		errors.Is(err, scraping.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, models.ErrInvalidRecord),
		errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err once and answers with the mapped status.
func respondError(c *gin.Context, log logger.Logger, message string, err error) {
	status := statusFor(err)

	resp := ErrorResponse{Error: message}
	var valErr *models.ValidationError
	switch {
	case errors.As(err, &valErr):
		resp.Details = valErr.Fields
	case status != http.StatusInternalServerError:
		resp.Details = err.Error()
	}

	fields := []logger.Field{
		logger.String("path", c.FullPath()),
		logger.Int("status_code", status),
		logger.Error(err),
	}
	if status >= http.StatusInternalServerError {
		log.Error(message, fields...)
	} else {
		log.Debug(message, fields...)
	}
	c.JSON(status, resp)
}

// respondBadRequest answers 400 for a body or parameter that failed to bind.
func respondBadRequest(c *gin.Context, log logger.Logger, err error) {
	log.Debug("Invalid request", logger.String("path", c.FullPath()), logger.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: err.Error()})
}

// intQuery reads a positive integer query parameter bounded by maxValue.
// A missing parameter yields def.
func intQuery(c *gin.Context, name string, def, maxValue int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxValue {
		return 0, fmt.Errorf("%w: %s must be between 1 and %d", errBadParam, name, maxValue)
	}
	return n, nil
}

// idParam reads a positive integer path parameter.
func idParam(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", errBadParam, name)
	}
	return id, nil
}
