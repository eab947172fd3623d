package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const resumeColumns = `id, title, document, style, created_at, updated_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var doc, style []byte
	if err := row.Scan(&r.ID, &r.Title, &doc, &style, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &r.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if err := json.Unmarshal(style, &r.Style); err != nil {
		return nil, fmt.Errorf("failed to unmarshal style: %w", err)
	}
	return &r, nil
}

func marshalResume(in *ResumeInput) ([]byte, []byte, error) {
	doc, err := json.Marshal(in.Document)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	style, err := json.Marshal(in.Style)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal style: %w", err)
	}
	return doc, style, nil
}

// CreateResume stores a new résumé and returns it with its generated ID
func (db *DB) CreateResume(ctx context.Context, in *ResumeInput) (*Resume, error) {
	doc, style, err := marshalResume(in)
	if err != nil {
		return nil, err
	}
	r, err := scanResume(db.pool.QueryRow(ctx,
		`INSERT INTO resumes (id, title, document, style)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+resumeColumns,
		uuid.New(), in.Title, doc, style,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return r, nil
}

// GetResume retrieves a résumé by ID. Returns nil, nil when it does not exist.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// UpdateResume replaces a résumé's content. Returns nil, nil when it does not exist.
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, in *ResumeInput) (*Resume, error) {
	doc, style, err := marshalResume(in)
	if err != nil {
		return nil, err
	}
	r, err := scanResume(db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $2, document = $3, style = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+resumeColumns,
		id, in.Title, doc, style,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return r, nil
}

// DeleteResume removes a résumé and its exports. Reports whether a row was deleted.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListResumes lists résumés, most recently updated first
func (db *DB) ListResumes(ctx context.Context, opts ListOptions) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes
		 ORDER BY updated_at DESC
		 LIMIT $1 OFFSET $2`,
		opts.limit(), opts.offset(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	resumes := []Resume{}
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate resumes: %w", err)
	}
	return resumes, nil
}
