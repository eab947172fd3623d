package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-paginator/internal/paginate"
	"github.com/jonathan/resume-paginator/internal/types"
)

// Resume is a stored résumé document with the style it was last edited with.
type Resume struct {
	ID        uuid.UUID            `json:"id"`
	Title     string               `json:"title"`
	Document  types.ResumeDocument `json:"document"`
	Style     types.StyleConfig    `json:"style"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ResumeInput carries the writable fields of a résumé.
type ResumeInput struct {
	Title    string               `json:"title"`
	Document types.ResumeDocument `json:"document"`
	Style    types.StyleConfig    `json:"style"`
}

// Export is a rasterized export kept for later download.
type Export struct {
	ID        uuid.UUID       `json:"id"`
	ResumeID  uuid.UUID       `json:"resume_id"`
	Template  string          `json:"template"`
	PageSize  string          `json:"page_size"`
	PageCount int             `json:"page_count"`
	Layout    paginate.Layout `json:"layout"`
	PDF       []byte          `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExportInput carries the fields of a new export.
type ExportInput struct {
	ResumeID  uuid.UUID
	Template  string
	PageSize  string
	PageCount int
	Layout    paginate.Layout
	PDF       []byte
}

// ListOptions paginates list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// DefaultListLimit caps list queries that do not set a limit.
const DefaultListLimit = 50

func (o ListOptions) limit() int {
	if o.Limit <= 0 || o.Limit > 500 {
		return DefaultListLimit
	}
	return o.Limit
}

func (o ListOptions) offset() int {
	if o.Offset < 0 {
		return 0
	}
	return o.Offset
}
