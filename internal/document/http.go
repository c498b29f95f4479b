package document

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/Kimsunjeung/cert-exam-gen/pkg/http/errors"
)

// maxUploadBytes caps upload size (study PDFs, not media files).
const maxUploadBytes = 32 << 20

// HTTPHandlers exposes the ingestion boundary over REST.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers constructs the document HTTP surface.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "document_http").Logger(),
	}
}

// Upload handles POST /api/documents: multipart upload with a "file" part.
func (h *HTTPHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "file part is required", "file")
		return
	}
	defer file.Close()

	result, err := h.svc.Upload(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedFormat):
			httperrors.RespondBadRequest(w, httperrors.ErrCodeUnsupportedFormat, "file format is not supported")
		case errors.Is(err, ErrExtractionFailed):
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExtractionFailed, "could not extract text from the file")
		default:
			h.logger.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
			httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeUploadFailed, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// List handles GET /api/documents.
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.List(r.Context(), 100)
	if err != nil {
		h.logger.Error().Err(err).Msg("document listing failed")
		httperrors.RespondInternalError(w, "could not list documents")
		return
	}
	if docs == nil {
		docs = []Document{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
