package document

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Document is the stored upload metadata. The text blob itself lives in
// the blob store (bytes) and the cache (extracted text).
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	StoredKey  string    `json:"-"`
	TextLength int       `json:"text_length"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Repository persists document metadata.
type Repository interface {
	Insert(ctx context.Context, doc Document) error
	Get(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, limit int32) ([]Document, error)
}

// Cache holds extracted text keyed by document id.
type Cache interface {
	Get(ctx context.Context, docID string) (string, error)
	Set(ctx context.Context, docID, text string) error
}

const previewRunes = 500

// Service is the document ingestion boundary: it owns upload, extraction,
// and text retrieval; the pipeline only ever sees the extracted text.
type Service struct {
	store     BlobStore
	extractor *Extractor
	cache     Cache
	repo      Repository
	logger    zerolog.Logger
}

// NewService wires the ingestion boundary.
func NewService(store BlobStore, extractor *Extractor, cache Cache, repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		extractor: extractor,
		cache:     cache,
		repo:      repo,
		logger:    logger.With().Str("component", "document").Logger(),
	}
}

// UploadResult is returned to the presentation layer after ingestion.
type UploadResult struct {
	Document Document `json:"document"`
	Preview  string   `json:"preview"`
}

// Upload stores the file, extracts its text, and records the metadata.
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	if !s.extractor.Supported(filename) {
		return UploadResult{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	id := uuid.NewString()
	key := id + strings.ToLower(filepath.Ext(filename))

	start := time.Now()
	storedKey, err := s.store.Put(key, r)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store upload: %w", err)
	}

	text, err := s.extractor.Extract(s.store.Path(storedKey))
	if err != nil {
		return UploadResult{}, err
	}

	doc := Document{
		ID:         id,
		Filename:   filepath.Base(filename),
		StoredKey:  storedKey,
		TextLength: len([]rune(text)),
		UploadedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		return UploadResult{}, fmt.Errorf("record document: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, id, text); err != nil {
			s.logger.Warn().Err(err).Str("document_id", id).Msg("text cache write failed")
		}
	}

	s.logger.Info().
		Str("document_id", id).
		Str("filename", doc.Filename).
		Int("text_len", doc.TextLength).
		Dur("took", time.Since(start)).
		Msg("document ingested")

	return UploadResult{Document: doc, Preview: preview(text)}, nil
}

// Text returns the extracted text for a document, via the cache when warm.
func (s *Service) Text(ctx context.Context, docID string) (string, error) {
	if s.cache != nil {
		if text, err := s.cache.Get(ctx, docID); err != nil {
			s.logger.Warn().Err(err).Str("document_id", docID).Msg("text cache read failed")
		} else if text != "" {
			return text, nil
		}
	}

	doc, err := s.repo.Get(ctx, docID)
	if err != nil {
		return "", err
	}

	text, err := s.extractor.Extract(s.store.Path(doc.StoredKey))
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, docID, text); err != nil {
			s.logger.Warn().Err(err).Str("document_id", docID).Msg("text cache write failed")
		}
	}
	return text, nil
}

// Get returns document metadata.
func (s *Service) Get(ctx context.Context, docID string) (Document, error) {
	return s.repo.Get(ctx, docID)
}

// List returns stored documents, most recent first.
func (s *Service) List(ctx context.Context, limit int32) ([]Document, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes])
}
