package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/resume-paginator/internal/db"
)

var validate = validator.New()

// ResumeRequest is the body of POST /resumes and PUT /resumes/{id}
type ResumeRequest struct {
	Title    string          `json:"title" validate:"max=200"`
	Document json.RawMessage `json:"document" validate:"required"`
	Style    json.RawMessage `json:"style,omitempty"`
}

// ExportResponse describes a stored export without its PDF bytes
type ExportResponse struct {
	*db.Export
	DownloadURL string `json:"download_url"`
}

func newExportResponse(e *db.Export) ExportResponse {
	return ExportResponse{Export: e, DownloadURL: "/exports/" + e.ID.String()}
}

func (s *Server) requireStore() error {
	if s.store == nil {
		return &ErrUnavailable{Feature: "résumé storage"}
	}
	return nil
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// decodeResumeRequest validates the request and returns the normalized input to store.
func decodeResumeRequest(w http.ResponseWriter, r *http.Request) (*db.ResumeInput, error) {
	var req ResumeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, &ErrValidation{Field: strings.ToLower(verrs[0].Field()), Message: "failed " + verrs[0].Tag()}
		}
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}

	doc, err := parseDocument(req.Document)
	if err != nil {
		return nil, err
	}
	prepared, err := doc.Prepared()
	if err != nil {
		return nil, err
	}
	st, err := parseStyle(req.Style)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSpace(prepared.Personal.Name)
	}
	if title == "" {
		title = "Untitled"
	}
	return &db.ResumeInput{Title: title, Document: *prepared, Style: st}, nil
}

// handleCreateResume stores a new résumé
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	in, err := decodeResumeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.store.CreateResume(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, res)
}

// handleListResumes lists stored résumés, newest first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}

	opts := db.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be an integer"})
			return
		}
		opts.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, &ErrValidation{Field: "offset", Message: "must be an integer"})
			return
		}
		opts.Offset = n
	}

	list, err := s.store.ListResumes(r.Context(), opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if list == nil {
		list = []db.Resume{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"resumes": list, "count": len(list)})
}

// handleGetResume returns one stored résumé
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res == nil {
		s.writeError(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleUpdateResume replaces a stored résumé's title, document and style
func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	in, err := decodeResumeRequest(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.store.UpdateResume(r.Context(), id, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res == nil {
		s.writeError(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, res)
}

// handleDeleteResume deletes a stored résumé and its exports
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	deleted, err := s.store.DeleteResume(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !deleted {
		s.writeError(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateResumeExport rasterizes a stored résumé with its stored style and keeps the PDF.
// ?preset= applies a preset on top of the stored style.
func (s *Server) handleCreateResumeExport(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res == nil {
		s.writeError(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}

	st, err := s.resolveStyle(res.Style, r.URL.Query().Get("preset"), true)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := s.exportContext(r.Context())
	defer cancel()
	result, err := s.exporter.Export(ctx, &res.Document, st)
	if err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.store.SaveExport(r.Context(), &db.ExportInput{
		ResumeID:  res.ID,
		Template:  result.Template,
		PageSize:  result.Geometry.PageSize,
		PageCount: result.PageCount,
		Layout:    result.Layout,
		PDF:       result.PDF,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, newExportResponse(saved))
}

// handleListResumeExports lists the stored exports of a résumé without their PDFs
func (s *Server) handleListResumeExports(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	list, err := s.store.ListExports(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]ExportResponse, 0, len(list))
	for i := range list {
		out = append(out, newExportResponse(&list[i]))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"exports": out, "count": len(out)})
}

// handleGetExport downloads a stored PDF
func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	if err := s.requireStore(); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	e, err := s.store.GetExport(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if e == nil {
		s.writeError(w, &ErrNotFound{Resource: "export", ID: id.String()})
		return
	}
	s.pdfResponse(w, e.PDF, e.PageCount, "resume-"+e.ID.String()+".pdf")
}
