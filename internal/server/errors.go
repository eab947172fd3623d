// Package server provides the HTTP REST API for résumé layout, preview and export.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/preview"
	"github.com/jonathan/resume-paginator/internal/schemas"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// ErrNotFound indicates a stored résumé or export does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a collaborator the request needs is not configured
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		notFound    *ErrNotFound
		validation  *ErrValidation
		unavailable *ErrUnavailable
		docErr      *types.DocumentError
		schemaErr   *schemas.ValidationError
		presetErr   *style.PresetError
		rasterErr   *export.RasterizeError
		mountErr    *measure.NotMountedError
	)
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &docErr), errors.As(err, &schemaErr), errors.As(err, &presetErr):
		return http.StatusBadRequest
	case errors.As(err, &unavailable), errors.Is(err, preview.ErrNoMeasurer):
		return http.StatusServiceUnavailable
	case errors.Is(err, preview.ErrSuperseded):
		return http.StatusConflict
	case errors.As(err, &rasterErr), errors.As(err, &mountErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
