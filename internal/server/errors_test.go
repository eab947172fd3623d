package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-paginator/internal/export"
	"github.com/jonathan/resume-paginator/internal/measure"
	"github.com/jonathan/resume-paginator/internal/preview"
	"github.com/jonathan/resume-paginator/internal/schemas"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

func TestErrNotFound(t *testing.T) {
	err := &ErrNotFound{Resource: "resume", ID: "abc"}
	assert.Equal(t, "resume not found: abc", err.Error())
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "id", Message: "must be a UUID"}
	assert.Equal(t, "validation error: id - must be a UUID", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "DocumentError", err: &types.DocumentError{Message: "bad kind"}, expected: http.StatusBadRequest},
		{name: "schema ValidationError", err: &schemas.ValidationError{}, expected: http.StatusBadRequest},
		{name: "PresetError", err: &style.PresetError{Name: "x"}, expected: http.StatusBadRequest},
		{name: "RasterizeError", err: &export.RasterizeError{Message: "boom"}, expected: http.StatusBadGateway},
		{name: "NotMountedError", err: &measure.NotMountedError{Missing: []string{"work-1"}}, expected: http.StatusBadGateway},
		{name: "wrapped RasterizeError", err: fmt.Errorf("export: %w", &export.RasterizeError{}), expected: http.StatusBadGateway},
		{name: "no measurer", err: preview.ErrNoMeasurer, expected: http.StatusServiceUnavailable},
		{name: "unavailable", err: &ErrUnavailable{Feature: "storage"}, expected: http.StatusServiceUnavailable},
		{name: "superseded", err: preview.ErrSuperseded, expected: http.StatusConflict},
		{name: "Unknown error", err: assert.AnError, expected: http.StatusInternalServerError},
		{name: "Nil error", err: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}
