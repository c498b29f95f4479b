package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimsunjeung/cert-exam-gen/internal/document"
)

type stubQuerier struct {
	execSQL  string
	execArgs []any
	execErr  error

	rows    [][]any
	rowErr  error
	lastSQL string
}

func (s *stubQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.execSQL = sql
	s.execArgs = args
	return pgconn.CommandTag{}, s.execErr
}

func (s *stubQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	s.lastSQL = sql
	if s.rowErr != nil {
		return nil, s.rowErr
	}
	return &stubRows{rows: s.rows}, nil
}

func (s *stubQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	s.lastSQL = sql
	if s.rowErr != nil {
		return &stubRow{err: s.rowErr}
	}
	if len(s.rows) == 0 {
		return &stubRow{err: pgx.ErrNoRows}
	}
	return &stubRow{values: s.rows[0]}
}

type stubRow struct {
	values []any
	err    error
}

func (r *stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(r.values, dest)
}

type stubRows struct {
	rows [][]any
	idx  int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return nil, nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	return scanInto(r.rows[r.idx-1], dest)
}

func scanInto(values []any, dest []any) error {
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return errors.New("unsupported scan destination")
		}
	}
	return nil
}

func docRow(id string) []any {
	return []any{id, id + ".pdf", id + "-key", 1200, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestInsert(t *testing.T) {
	q := &stubQuerier{}
	repo := NewDocumentRepository(q)

	doc := document.Document{
		ID:         "d1",
		Filename:   "notes.pdf",
		StoredKey:  "d1.pdf",
		TextLength: 4200,
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Insert(context.Background(), doc))

	assert.Contains(t, q.execSQL, "INSERT INTO documents")
	assert.Equal(t, []any{doc.ID, doc.Filename, doc.StoredKey, doc.TextLength, doc.UploadedAt}, q.execArgs)
}

func TestInsertError(t *testing.T) {
	q := &stubQuerier{execErr: errors.New("connection reset")}
	repo := NewDocumentRepository(q)

	err := repo.Insert(context.Background(), document.Document{ID: "d1"})
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	q := &stubQuerier{rows: [][]any{docRow("d1")}}
	repo := NewDocumentRepository(q)

	doc, err := repo.Get(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, "d1.pdf", doc.Filename)
	assert.Equal(t, "d1-key", doc.StoredKey)
	assert.Equal(t, 1200, doc.TextLength)
}

func TestGetNotFound(t *testing.T) {
	repo := NewDocumentRepository(&stubQuerier{})

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestList(t *testing.T) {
	q := &stubQuerier{rows: [][]any{docRow("d2"), docRow("d1")}}
	repo := NewDocumentRepository(q)

	docs, err := repo.List(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d2", docs[0].ID)
	assert.Equal(t, "d1", docs[1].ID)
	assert.Contains(t, q.lastSQL, "ORDER BY uploaded_at DESC")
}
