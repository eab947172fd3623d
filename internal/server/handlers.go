package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-paginator/internal/geometry"
	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/schemas"
	"github.com/jonathan/resume-paginator/internal/style"
	"github.com/jonathan/resume-paginator/internal/types"
)

// maxBodyBytes bounds request bodies; photos may arrive inline as data URLs
const maxBodyBytes = 8 << 20

// LayoutRequest is the body of /layout, /preview and /export
type LayoutRequest struct {
	Document json.RawMessage `json:"document"`
	Style    json.RawMessage `json:"style,omitempty"`
	Preset   string          `json:"preset,omitempty"`
}

// LayoutResponse is the estimated layout of a document
type LayoutResponse struct {
	Template  string            `json:"template"`
	Geometry  geometry.Geometry `json:"geometry"`
	Options   paginate.Options  `json:"options"`
	Layout    paginate.Layout   `json:"layout"`
	PageCount int               `json:"page_count"`
}

// handlePresets lists the style presets
func (s *Server) handlePresets(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"presets": style.Presets()})
}

// handleLayout paginates a document on the estimated path
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, st, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	_, layout, opts, err := s.exporter.Layout(doc, st)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, LayoutResponse{
		Template:  style.NormalizeTemplate(st.Template),
		Geometry:  st.Geometry(),
		Options:   opts,
		Layout:    layout,
		PageCount: layout.PageCount(),
	})
}

// handlePreview paginates a document on the measured path. ?format=html returns the
// paginated preview document instead of the JSON view.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	doc, st, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	engine, release := s.previewEngine(s.previewSession(r))
	defer release()
	view, err := engine.Run(r.Context(), doc, st)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := view.Document(st, s.constants)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.htmlResponse(w, html, view.Layout.PageCount())
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleExport rasterizes a document into a PDF. ?format=html returns the export payload
// document without rasterizing it.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, st, err := s.decodeLayoutRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		payload, err := s.exporter.Build(doc, st)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.htmlResponse(w, payload.HTML, payload.Layout.PageCount())
		return
	}

	ctx, cancel := s.exportContext(r.Context())
	defer cancel()
	result, err := s.exporter.Export(ctx, doc, st)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.pdfResponse(w, result.PDF, result.PageCount, "resume.pdf")
}

func (s *Server) exportContext(parent context.Context) (context.Context, context.CancelFunc) {
	if s.defaults.ExportTimeout > 0 {
		return context.WithTimeout(parent, s.defaults.ExportTimeout)
	}
	return context.WithCancel(parent)
}

// decodeLayoutRequest reads a LayoutRequest, validates its raw parts against the embedded
// schemas and resolves the style against the server defaults.
func (s *Server) decodeLayoutRequest(w http.ResponseWriter, r *http.Request) (*types.ResumeDocument, style.Resolved, error) {
	var req LayoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, style.Resolved{}, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if len(req.Document) == 0 {
		return nil, style.Resolved{}, &ErrValidation{Field: "document", Message: "is required"}
	}

	doc, err := parseDocument(req.Document)
	if err != nil {
		return nil, style.Resolved{}, err
	}
	cfg, err := parseStyle(req.Style)
	if err != nil {
		return nil, style.Resolved{}, err
	}
	st, err := s.resolveStyle(cfg, req.Preset, len(req.Style) > 0)
	if err != nil {
		return nil, style.Resolved{}, err
	}
	return doc, st, nil
}

func parseDocument(raw json.RawMessage) (*types.ResumeDocument, error) {
	if err := schemas.ValidateDocument(raw); err != nil {
		return nil, err
	}
	return types.DecodeDocument(raw)
}

func parseStyle(raw json.RawMessage) (types.StyleConfig, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return types.StyleConfig{}, nil
	}
	if err := schemas.ValidateStyle(raw); err != nil {
		return types.StyleConfig{}, err
	}
	cfg, err := types.DecodeStyle(raw)
	if err != nil {
		return cfg, &ErrValidation{Field: "style", Message: err.Error()}
	}
	return cfg, nil
}

// resolveStyle fills template and page size from the server defaults. The default preset
// applies only when the request carried no style of its own; an explicit preset always applies.
func (s *Server) resolveStyle(cfg types.StyleConfig, preset string, explicit bool) (style.Resolved, error) {
	if cfg.Template == "" {
		cfg.Template = s.defaults.Template
	}
	if cfg.PageSize == "" {
		cfg.PageSize = s.defaults.PageSize
	}
	if preset == "" && !explicit {
		preset = s.defaults.Preset
	}
	if preset != "" {
		var err error
		if cfg, err = style.ApplyPreset(cfg, preset); err != nil {
			return style.Resolved{}, err
		}
	}
	return style.Resolve(cfg), nil
}

// writeError maps err onto a status and writes it. Schema failures carry their field list.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[server] Request failed with %d: %v", status, err)
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		s.jsonResponse(w, status, map[string]any{"error": "validation failed", "errors": ve.Errors})
		return
	}
	s.errorResponse(w, status, err.Error())
}

func (s *Server) htmlResponse(w http.ResponseWriter, html string, pages int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Page-Count", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

func (s *Server) pdfResponse(w http.ResponseWriter, pdf []byte, pages int, filename string) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("X-Page-Count", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("Error writing PDF response: %v", err)
	}
}
