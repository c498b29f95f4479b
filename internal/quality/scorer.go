package quality

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Kimsunjeung/cert-exam-gen/internal/llm"
	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
)

// Scores holds the four independent quality metrics, each in [0,1].
type Scores struct {
	Faithfulness     float64 `json:"faithfulness"`
	AnswerRelevancy  float64 `json:"answer_relevancy"`
	ContextPrecision float64 `json:"context_precision"`
	ContextRecall    float64 `json:"context_recall"`
}

// Average returns the mean of the four metrics.
func (s Scores) Average() float64 {
	return (s.Faithfulness + s.AnswerRelevancy + s.ContextPrecision + s.ContextRecall) / 4
}

// Metric names, used for judge prompts and logging.
const (
	metricFaithfulness     = "faithfulness"
	metricAnswerRelevancy  = "answer_relevancy"
	metricContextPrecision = "context_precision"
	metricContextRecall    = "context_recall"
)

const contextSampleRunes = 2000

// Config tunes the scorer.
type Config struct {
	// SampleSize caps how many questions feed each judge prompt.
	SampleSize int

	MaxTokens   int
	Temperature float64
}

func (c Config) withDefaults() Config {
	if c.SampleSize <= 0 {
		c.SampleSize = 8
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 256
	}
	return c
}

// Scorer computes the four quality metrics over generated question sets.
// The primary path asks the model to judge each metric against a rubric;
// when a judgment fails, the metric falls back to a deterministic
// heuristic, so scoring as a whole degrades rather than fails.
//
// Judged values are deterministic only up to the judge itself; treat
// run-to-run drift as expected, not as a defect.
type Scorer struct {
	provider llm.Provider
	cfg      Config
	logger   zerolog.Logger
}

// NewScorer builds a Scorer. A nil provider yields heuristic-only scoring.
func NewScorer(provider llm.Provider, cfg Config, logger zerolog.Logger) *Scorer {
	return &Scorer{
		provider: provider,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("component", "quality_scorer").Logger(),
	}
}

// Score evaluates the generated questions against their source context.
// The four metrics are independent and computed concurrently; a failure in
// one never aborts the others.
func (s *Scorer) Score(ctx context.Context, chunks []string, questions []question.Question) (*Scores, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions to score")
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no context to score against")
	}

	contextText := truncateRunes(strings.Join(chunks, "\n\n"), contextSampleRunes)
	sample := questions
	if len(sample) > s.cfg.SampleSize {
		sample = sample[:s.cfg.SampleSize]
	}

	metrics := []string{metricFaithfulness, metricAnswerRelevancy, metricContextPrecision, metricContextRecall}
	values := make([]float64, len(metrics))

	var wg sync.WaitGroup
	for i, metric := range metrics {
		wg.Add(1)
		go func() {
			defer wg.Done()
			values[i] = s.scoreMetric(ctx, metric, contextText, sample, questions)
		}()
	}
	wg.Wait()

	return &Scores{
		Faithfulness:     values[0],
		AnswerRelevancy:  values[1],
		ContextPrecision: values[2],
		ContextRecall:    values[3],
	}, nil
}

// scoreMetric runs the model judge for one metric, falling back to the
// heuristic when the judge is unavailable or fails.
func (s *Scorer) scoreMetric(ctx context.Context, metric, contextText string, sample, all []question.Question) float64 {
	if s.provider != nil {
		value, err := s.judge(ctx, metric, contextText, sample)
		if err == nil {
			return value
		}
		s.logger.Warn().Err(err).Str("metric", metric).Msg("judge failed, using heuristic")
	}
	return heuristic(metric, contextText, all)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
