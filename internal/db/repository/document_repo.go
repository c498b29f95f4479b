package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Kimsunjeung/cert-exam-gen/internal/document"
)

// querier is the subset of pgxpool.Pool the repository needs; tests supply
// a stub.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DocumentRepository persists uploaded-document metadata in Postgres.
type DocumentRepository struct {
	db querier
}

var _ document.Repository = (*DocumentRepository)(nil)

// NewDocumentRepository wraps a pgx pool (or compatible querier).
func NewDocumentRepository(db querier) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Insert records a freshly ingested document.
func (r *DocumentRepository) Insert(ctx context.Context, doc document.Document) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO documents (id, filename, stored_key, text_length, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		doc.ID, doc.Filename, doc.StoredKey, doc.TextLength, doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// Get fetches one document by id.
func (r *DocumentRepository) Get(ctx context.Context, id string) (document.Document, error) {
	var doc document.Document
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, stored_key, text_length, uploaded_at
		 FROM documents WHERE id = $1`, id,
	).Scan(&doc.ID, &doc.Filename, &doc.StoredKey, &doc.TextLength, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return document.Document{}, document.ErrNotFound
		}
		return document.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns stored documents, most recent first.
func (r *DocumentRepository) List(ctx context.Context, limit int32) ([]document.Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, filename, stored_key, text_length, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []document.Document
	for rows.Next() {
		var doc document.Document
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.StoredKey, &doc.TextLength, &doc.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
