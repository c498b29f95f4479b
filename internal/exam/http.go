package exam

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kimsunjeung/cert-exam-gen/internal/contextprep"
	"github.com/Kimsunjeung/cert-exam-gen/internal/document"
	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
	"github.com/Kimsunjeung/cert-exam-gen/internal/session"
	httperrors "github.com/Kimsunjeung/cert-exam-gen/pkg/http/errors"
)

// SessionHeader carries the client's session identity. The presentation
// layer generates one per tab; everything session-scoped keys off it.
const SessionHeader = "X-Session-ID"

const defaultSessionID = "default"

// HTTPHandlers exposes the pipeline and session operations over REST.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers constructs the exam HTTP surface.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "exam_http").Logger(),
	}
}

func sessionID(r *http.Request) string {
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	return defaultSessionID
}

// Generate handles POST /api/exams: run the pipeline and append the new
// set to the session.
func (h *HTTPHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "malformed JSON body")
		return
	}

	if req.DocumentID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "document_id is required", "document_id")
		return
	}
	if !req.QuestionType.Valid() {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "unknown question type", "question_type")
		return
	}
	if !req.Difficulty.Valid() {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "unknown difficulty", "difficulty")
		return
	}
	req.Count = question.ClampCount(req.Count)

	set, err := h.svc.Generate(r.Context(), sessionID(r), req)
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"set": set})
}

// List handles GET /api/exams: the session's set summaries plus the
// active selection.
func (h *HTTPHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Sessions().Get(sessionID(r))

	sets := sess.Sets()
	summaries := make([]setSummary, 0, len(sets))
	for _, set := range sets {
		summaries = append(summaries, summarize(set))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"sets":      summaries,
		"active_id": sess.ActiveID(),
	})
}

// GetSet handles GET /api/exams/{id}.
func (h *HTTPHandlers) GetSet(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Sessions().Get(sessionID(r))

	set, err := sess.Get(r.PathValue("id"))
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"set": set})
}

// Select handles POST /api/exams/{id}/select: makes the set active and
// surfaces its parameters as the generation defaults for "generate more".
func (h *HTTPHandlers) Select(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Sessions().Get(sessionID(r))

	set, err := sess.Select(r.PathValue("id"))
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"set": set,
		"defaults": map[string]any{
			"question_type": set.QuestionType,
			"difficulty":    set.Difficulty,
			"count":         set.RequestedCount,
		},
	})
}

// Delete handles DELETE /api/exams/{id}. The response carries the
// re-pointed selection; an empty active_id tells the client to return to
// the setup view.
func (h *HTTPHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Sessions().Get(sessionID(r))

	if err := sess.Delete(r.PathValue("id")); err != nil {
		h.respondPipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"active_id": sess.ActiveID(),
		"remaining": len(sess.Sets()),
	})
}

// Export handles GET /api/exams/{id}/export.
func (h *HTTPHandlers) Export(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Sessions().Get(sessionID(r))

	set, err := sess.Get(r.PathValue("id"))
	if err != nil {
		h.respondPipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BuildExport(set))
}

type setSummary struct {
	ID                  string              `json:"id"`
	CreatedAt           time.Time           `json:"created_at"`
	QuestionType        question.Type       `json:"question_type"`
	Difficulty          question.Difficulty `json:"difficulty"`
	RequestedCount      int                 `json:"requested_count"`
	QuestionCount       int                 `json:"question_count"`
	AverageScore        *float64            `json:"average_score,omitempty"`
	SourceDocumentLabel string              `json:"source_document_label"`
}

func summarize(set *session.QuestionSet) setSummary {
	s := setSummary{
		ID:                  set.ID,
		CreatedAt:           set.CreatedAt,
		QuestionType:        set.QuestionType,
		Difficulty:          set.Difficulty,
		RequestedCount:      set.RequestedCount,
		QuestionCount:       len(set.Questions),
		SourceDocumentLabel: set.SourceDocumentLabel,
	}
	if set.QualityScores != nil {
		avg := set.QualityScores.Average()
		s.AverageScore = &avg
	}
	return s
}

// respondPipelineError maps the pipeline error taxonomy onto HTTP codes.
func (h *HTTPHandlers) respondPipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contextprep.ErrEmptyDocument):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeEmptyDocument, "document contains no extractable text")
	case errors.Is(err, document.ErrNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeDocumentNotFound, "document not found")
	case errors.Is(err, document.ErrUnsupportedFormat):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeUnsupportedFormat, "file format is not supported")
	case errors.Is(err, document.ErrExtractionFailed):
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeExtractionFailed, "could not extract text from the document")
	case errors.Is(err, question.ErrGenerationTimeout):
		httperrors.RespondError(w, http.StatusGatewayTimeout, httperrors.ErrCodeGenerationTimeout, "question generation timed out")
	case errors.Is(err, question.ErrGenerationValidation):
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeGenerationValidation, "the model could not produce a valid question set")
	case errors.Is(err, question.ErrGenerationService):
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeGenerationFailed, "generation service failed")
	case errors.Is(err, ErrRequestSuperseded):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeRequestSuperseded, "a newer generation request replaced this one")
	case errors.Is(err, session.ErrSetNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSetNotFound, "question set not found")
	default:
		h.logger.Error().Err(err).Msg("unhandled pipeline error")
		httperrors.RespondInternalError(w, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
