package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveExport stores a rasterized export for a résumé
func (db *DB) SaveExport(ctx context.Context, in *ExportInput) (*Export, error) {
	layout, err := json.Marshal(in.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layout: %w", err)
	}

	e := Export{
		ID:        uuid.New(),
		ResumeID:  in.ResumeID,
		Template:  in.Template,
		PageSize:  in.PageSize,
		PageCount: in.PageCount,
		Layout:    in.Layout,
		PDF:       in.PDF,
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO exports (id, resume_id, template, page_size, page_count, layout, pdf)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		e.ID, e.ResumeID, e.Template, e.PageSize, e.PageCount, layout, e.PDF,
	).Scan(&e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save export: %w", err)
	}
	return &e, nil
}

// GetExport retrieves an export including its PDF. Returns nil, nil when it does not exist.
func (db *DB) GetExport(ctx context.Context, id uuid.UUID) (*Export, error) {
	var e Export
	var layout []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, resume_id, template, page_size, page_count, layout, pdf, created_at
		 FROM exports WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.ResumeID, &e.Template, &e.PageSize, &e.PageCount, &layout, &e.PDF, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	if err := json.Unmarshal(layout, &e.Layout); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout: %w", err)
	}
	return &e, nil
}

// ListExports lists a résumé's exports without their PDF bytes, newest first
func (db *DB) ListExports(ctx context.Context, resumeID uuid.UUID) ([]Export, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_id, template, page_size, page_count, created_at
		 FROM exports WHERE resume_id = $1
		 ORDER BY created_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	exports := []Export{}
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.ResumeID, &e.Template, &e.PageSize, &e.PageCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		exports = append(exports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exports: %w", err)
	}
	return exports, nil
}
