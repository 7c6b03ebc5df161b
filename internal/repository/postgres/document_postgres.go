// Package postgres provides an optional database-backed document store for
// deployments that want records to outlive the process.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/LocialWang/coze-word-upload-plugin/internal/model"
	"github.com/LocialWang/coze-word-upload-plugin/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of
// repository.DocumentRepository. Parameterized queries only, no business
// logic. A seq column preserves insertion order for listing.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// EnsureSchema creates the documents table if it does not exist.
func (r *DocumentPostgres) EnsureSchema(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS documents (
			seq          BIGSERIAL,
			id           TEXT PRIMARY KEY,
			filename     TEXT NOT NULL,
			content      TEXT NOT NULL,
			word_count   INTEGER NOT NULL,
			uploaded_at  TIMESTAMPTZ NOT NULL,
			storage_path TEXT NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("ensure documents schema: %w", err)
	}
	return nil
}

// Insert stores a new document row.
func (r *DocumentPostgres) Insert(ctx context.Context, doc *model.Document) error {
	const q = `
		INSERT INTO documents (id, filename, content, word_count, uploaded_at, storage_path)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, q,
		doc.ID,
		doc.Filename,
		doc.Content,
		doc.WordCount,
		doc.UploadedAt,
		doc.StoragePath,
	)
	return err
}

// FindByID fetches a single document by its id.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT id, filename, content, word_count, uploaded_at, storage_path
		FROM documents
		WHERE id = $1
	`
	row := r.db.QueryRowContext(ctx, q, id)
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Filename,
		&d.Content,
		&d.WordCount,
		&d.UploadedAt,
		&d.StoragePath,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// List returns all documents in insertion order.
func (r *DocumentPostgres) List(ctx context.Context) ([]model.Document, error) {
	const q = `
		SELECT id, filename, content, word_count, uploaded_at, storage_path
		FROM documents
		ORDER BY seq ASC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := rows.Scan(
			&d.ID,
			&d.Filename,
			&d.Content,
			&d.WordCount,
			&d.UploadedAt,
			&d.StoragePath,
		); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes the row for id; a missing row is not an error.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
