package question

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Kimsunjeung/cert-exam-gen/internal/llm"
)

// Config tunes the synthesizer.
type Config struct {
	// BatchSize caps questions per model call. Smaller batches keep
	// individual calls inside rate limits and timeouts.
	BatchSize int

	// MaxRetries bounds extra generation rounds used to cover a
	// validation deficit before the whole request fails.
	MaxRetries int

	MaxTokens   int
	Temperature float64
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 2
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 4096
	}
	return c
}

// Synthesizer turns context chunks into an exact-count list of validated
// questions via the model provider. Pure given its inputs plus the
// provider; its only side effects are the outbound generation calls.
type Synthesizer struct {
	provider llm.Provider
	cfg      Config
	logger   zerolog.Logger
}

// NewSynthesizer builds a Synthesizer on top of a model provider.
func NewSynthesizer(provider llm.Provider, cfg Config, logger zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		provider: provider,
		cfg:      cfg.withDefaults(),
		logger:   logger.With().Str("component", "synthesizer").Logger(),
	}
}

// Synthesize produces exactly count questions of the requested type, or
// fails. Count is re-clamped here; the synthesizer never trusts its caller.
func (s *Synthesizer) Synthesize(ctx context.Context, chunks []string, t Type, difficulty Difficulty, count int) ([]Question, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no context chunks", ErrGenerationValidation)
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: unknown question type %q", ErrGenerationValidation, t)
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrGenerationValidation, difficulty)
	}
	count = ClampCount(count)

	if t == TypeMixed {
		return s.synthesizeMixed(ctx, chunks, difficulty, count)
	}
	return s.synthesizeTyped(ctx, chunks, t, difficulty, count)
}

// synthesizeMixed partitions the count across the concrete types and
// generates the sub-batches concurrently. The sub-lists are independent,
// side-effect-free computations over the same chunks, joined before return.
func (s *Synthesizer) synthesizeMixed(ctx context.Context, chunks []string, difficulty Difficulty, count int) ([]Question, error) {
	split := Partition(count)
	s.logger.Info().
		Int("multiple_choice", split.MultipleChoice).
		Int("true_false", split.TrueFalse).
		Int("essay", split.Essay).
		Msg("mixed partition planned")

	results := make([][]Question, len(ConcreteTypes))
	g, gctx := errgroup.WithContext(ctx)

	for i, ct := range ConcreteTypes {
		n := split.Count(ct)
		if n == 0 {
			continue
		}
		g.Go(func() error {
			qs, err := s.synthesizeTyped(gctx, chunks, ct, difficulty, n)
			if err != nil {
				return err
			}
			results[i] = qs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return interleave(results, count), nil
}

// interleave merges per-type lists round-robin so mixed sets alternate
// types deterministically instead of clustering.
func interleave(lists [][]Question, count int) []Question {
	merged := make([]Question, 0, count)
	for i := 0; len(merged) < count; i++ {
		progressed := false
		for _, list := range lists {
			if i < len(list) {
				merged = append(merged, list[i])
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	if len(merged) > count {
		merged = merged[:count]
	}
	return merged
}

// synthesizeTyped generates count questions of one concrete type, batching
// calls and re-requesting any validation deficit up to the retry bound.
// Partial success is not acceptable: the caller needs an exact count.
func (s *Synthesizer) synthesizeTyped(ctx context.Context, chunks []string, t Type, difficulty Difficulty, count int) ([]Question, error) {
	valid := make([]Question, 0, count)
	retriesLeft := s.cfg.MaxRetries

	for call := 0; len(valid) < count; call++ {
		need := count - len(valid)
		batch := need
		if batch > s.cfg.BatchSize {
			batch = s.cfg.BatchSize
		}

		chunk := chunks[call%len(chunks)]
		generated, err := s.generateBatch(ctx, chunk, t, difficulty, batch, len(valid)+1)
		if err != nil {
			return nil, err
		}

		kept := 0
		for _, q := range generated {
			if len(valid) == count {
				break
			}
			postprocess(&q)
			if verr := validate(&q); verr != nil {
				s.logger.Debug().Err(verr).Str("type", string(t)).Msg("dropping invalid question")
				continue
			}
			valid = append(valid, q)
			kept++
		}

		// A round that did not fully deliver its batch consumes a retry.
		if kept < batch {
			if retriesLeft == 0 {
				return nil, fmt.Errorf("%w: %s short %d of %d after retries",
					ErrGenerationValidation, t, count-len(valid), count)
			}
			retriesLeft--
		}
	}

	return valid, nil
}

// batchOutput mirrors the JSON the model returns for one call.
type batchOutput struct {
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	ID          int      `json:"id"`
	Type        string   `json:"type"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

func (s *Synthesizer) generateBatch(ctx context.Context, chunk string, t Type, difficulty Difficulty, count, startID int) ([]Question, error) {
	req := llm.Request{
		System:      buildSystemPrompt(t, difficulty, count),
		User:        buildUserPrompt(chunk, t, count, startID),
		Schema:      batchSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrGenerationTimeout, err)
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationService, err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%w: decode batch: %v", ErrGenerationService, err)
	}

	questions := make([]Question, 0, len(out.Questions))
	for _, raw := range out.Questions {
		questions = append(questions, Question{
			ID:          uuid.NewString(),
			Type:        t, // the request decides the type, not the model
			Prompt:      raw.Question,
			Options:     raw.Options,
			Answer:      raw.Answer,
			Explanation: raw.Explanation,
		})
	}

	s.logger.Debug().
		Str("type", string(t)).
		Int("requested", count).
		Int("returned", len(questions)).
		Int("tokens", resp.Usage.TotalTokens).
		Msg("generation batch complete")

	return questions, nil
}
