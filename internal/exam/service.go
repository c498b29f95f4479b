package exam

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kimsunjeung/cert-exam-gen/internal/document"
	"github.com/Kimsunjeung/cert-exam-gen/internal/quality"
	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
	"github.com/Kimsunjeung/cert-exam-gen/internal/session"
)

// ErrRequestSuperseded indicates the client started a newer generation
// before this one finished; the stale result was discarded, not appended.
var ErrRequestSuperseded = errors.New("generation request superseded")

// DocumentSource supplies document metadata and extracted text.
type DocumentSource interface {
	Get(ctx context.Context, docID string) (document.Document, error)
	Text(ctx context.Context, docID string) (string, error)
}

// Preparer splits document text into context chunks.
type Preparer interface {
	Prepare(text string) ([]string, error)
}

// Synthesizer produces an exact-count question list.
type Synthesizer interface {
	Synthesize(ctx context.Context, chunks []string, t question.Type, difficulty question.Difficulty, count int) ([]question.Question, error)
}

// Scorer evaluates generated questions against their context.
type Scorer interface {
	Score(ctx context.Context, chunks []string, questions []question.Question) (*quality.Scores, error)
}

// GenerateRequest is one generation call from the presentation layer.
type GenerateRequest struct {
	DocumentID   string              `json:"document_id"`
	QuestionType question.Type       `json:"question_type"`
	Difficulty   question.Difficulty `json:"difficulty"`
	Count        int                 `json:"count"`
}

// Config tunes the pipeline service.
type Config struct {
	// GenerationTimeout bounds the whole synthesis phase. Zero disables.
	GenerationTimeout time.Duration

	// ScoringEnabled turns the quality evaluation add-on on or off.
	// Scoring never gates question delivery either way.
	ScoringEnabled bool
}

// Service is the pipeline entrypoint the presentation layer depends on:
// document text -> context chunks -> questions -> best-effort scores ->
// session append.
type Service struct {
	docs     DocumentSource
	preparer Preparer
	synth    Synthesizer
	scorer   Scorer
	sessions *session.Manager
	cfg      Config
	logger   zerolog.Logger
}

// NewService wires the pipeline.
func NewService(docs DocumentSource, preparer Preparer, synth Synthesizer, scorer Scorer, sessions *session.Manager, cfg Config, logger zerolog.Logger) *Service {
	return &Service{
		docs:     docs,
		preparer: preparer,
		synth:    synth,
		scorer:   scorer,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger.With().Str("component", "exam").Logger(),
	}
}

// Sessions exposes the session registry for the read-side handlers.
func (s *Service) Sessions() *session.Manager {
	return s.sessions
}

// Generate runs the full pipeline for one request and appends the result
// to the session. Nothing is appended on failure, and a result whose
// request was superseded mid-flight is discarded.
func (s *Service) Generate(ctx context.Context, sessionID string, req GenerateRequest) (*session.QuestionSet, error) {
	sess := s.sessions.Get(sessionID)
	token := sess.BeginGeneration()

	count := question.ClampCount(req.Count)
	start := time.Now()

	set, err := s.generate(ctx, req, count)
	if err != nil {
		generationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	generationDuration.Observe(time.Since(start).Seconds())

	created, ok := sess.CreateSet(token, set)
	if !ok {
		generationsTotal.WithLabelValues("superseded").Inc()
		s.logger.Warn().Str("session_id", sessionID).Msg("discarding superseded generation result")
		return nil, ErrRequestSuperseded
	}

	generationsTotal.WithLabelValues("ok").Inc()
	s.logger.Info().
		Str("session_id", sessionID).
		Str("set_id", created.ID).
		Str("type", string(req.QuestionType)).
		Str("difficulty", string(req.Difficulty)).
		Int("count", len(created.Questions)).
		Bool("scored", created.QualityScores != nil).
		Dur("took", time.Since(start)).
		Msg("question set generated")

	return created, nil
}

func (s *Service) generate(ctx context.Context, req GenerateRequest, count int) (*session.QuestionSet, error) {
	doc, err := s.docs.Get(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	text, err := s.docs.Text(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	chunks, err := s.preparer.Prepare(text)
	if err != nil {
		return nil, err
	}

	genCtx := ctx
	if s.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
	}

	questions, err := s.synth.Synthesize(genCtx, chunks, req.QuestionType, req.Difficulty, count)
	if err != nil {
		return nil, err
	}

	// Scoring is an evaluation add-on, not a delivery gate: any failure
	// here degrades to null scores.
	var scores *quality.Scores
	if s.cfg.ScoringEnabled && s.scorer != nil {
		scoreStart := time.Now()
		scores, err = s.scorer.Score(ctx, chunks, questions)
		if err != nil {
			scoringFailures.Inc()
			s.logger.Warn().Err(err).Msg("quality scoring failed, continuing without scores")
			scores = nil
		} else {
			scoringDuration.Observe(time.Since(scoreStart).Seconds())
		}
	}

	return &session.QuestionSet{
		QuestionType:        req.QuestionType,
		Difficulty:          req.Difficulty,
		RequestedCount:      count,
		Questions:           questions,
		QualityScores:       scores,
		SourceDocumentLabel: doc.Filename,
	}, nil
}
