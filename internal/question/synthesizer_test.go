package question

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kimsunjeung/cert-exam-gen/internal/llm"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// batchContent builds a valid model batch for the given type.
func batchContent(t *testing.T, typ Type, n int) json.RawMessage {
	t.Helper()

	type raw struct {
		ID          int      `json:"id"`
		Type        string   `json:"type"`
		Question    string   `json:"question"`
		Options     []string `json:"options,omitempty"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
	}

	questions := make([]raw, 0, n)
	for i := 0; i < n; i++ {
		q := raw{
			ID:          i + 1,
			Type:        string(typ),
			Question:    fmt.Sprintf("Generated %s question number %d?", typ, i+1),
			Explanation: "Because the material says so in the relevant section.",
		}
		switch typ {
		case TypeMultipleChoice:
			q.Options = []string{
				fmt.Sprintf("Correct %d", i+1),
				fmt.Sprintf("Wrong A %d", i+1),
				fmt.Sprintf("Wrong B %d", i+1),
				fmt.Sprintf("Wrong C %d", i+1),
			}
			q.Answer = fmt.Sprintf("Correct %d", i+1)
		case TypeTrueFalse:
			q.Options = []string{"True", "False"}
			q.Answer = "True"
		case TypeEssay:
			q.Answer = "A reference answer covering the expected points."
		}
		questions = append(questions, q)
	}

	content, err := json.Marshal(map[string]any{"questions": questions})
	require.NoError(t, err)
	return content
}

// invalidBatchContent builds questions that fail structural validation
// (multiple-choice with only three options).
func invalidBatchContent(t *testing.T, n int) json.RawMessage {
	t.Helper()

	questions := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, map[string]any{
			"question": fmt.Sprintf("Broken question %d?", i+1),
			"options":  []string{"One", "Two", "Three"},
			"answer":   "One",
		})
	}
	content, err := json.Marshal(map[string]any{"questions": questions})
	require.NoError(t, err)
	return content
}

func TestSynthesizeExactCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchContent(t, TypeMultipleChoice, 5)})
	s := NewSynthesizer(mock, Config{}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"study material"}, TypeMultipleChoice, DifficultyMedium, 5)
	require.NoError(t, err)
	require.Len(t, qs, 5)

	seen := make(map[string]bool)
	for _, q := range qs {
		assert.Equal(t, TypeMultipleChoice, q.Type)
		assert.Len(t, q.Options, 4)
		assert.Contains(t, q.Options, q.Answer)
		assert.NotEmpty(t, q.ID)
		assert.False(t, seen[q.ID], "ids must be unique")
		seen[q.ID] = true
	}
	assert.Equal(t, 1, mock.CallCount())
}

func TestSynthesizeClampsLowCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: batchContent(t, TypeEssay, 5)})
	s := NewSynthesizer(mock, Config{}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"study material"}, TypeEssay, DifficultyEasy, 2)
	require.NoError(t, err)
	assert.Len(t, qs, MinCount)
}

func TestSynthesizeBatchesLargeCounts(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchContent(t, TypeTrueFalse, 10)},
		llm.MockResponse{Content: batchContent(t, TypeTrueFalse, 2)},
	)
	s := NewSynthesizer(mock, Config{BatchSize: 10}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"study material"}, TypeTrueFalse, DifficultyHigh, 12)
	require.NoError(t, err)
	assert.Len(t, qs, 12)
	assert.Equal(t, 2, mock.CallCount())
}

func TestSynthesizeRotatesChunks(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchContent(t, TypeEssay, 5)},
		llm.MockResponse{Content: batchContent(t, TypeEssay, 5)},
	)
	s := NewSynthesizer(mock, Config{BatchSize: 5}, testLogger())

	chunks := []string{"chunk alpha content", "chunk beta content"}
	_, err := s.Synthesize(context.Background(), chunks, TypeEssay, DifficultyMedium, 10)
	require.NoError(t, err)

	require.Equal(t, 2, mock.CallCount())
	assert.Contains(t, mock.Calls[0].User, "chunk alpha content")
	assert.Contains(t, mock.Calls[1].User, "chunk beta content")
}

func TestSynthesizeCoversValidationDeficit(t *testing.T) {
	// First round delivers 5 but 2 fail validation; the follow-up round
	// covers the remaining 2.
	partlyBroken := func() json.RawMessage {
		var out struct {
			Questions []json.RawMessage `json:"questions"`
		}
		var good struct {
			Questions []json.RawMessage `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(batchContent(t, TypeMultipleChoice, 3), &good))
		var bad struct {
			Questions []json.RawMessage `json:"questions"`
		}
		require.NoError(t, json.Unmarshal(invalidBatchContent(t, 2), &bad))
		out.Questions = append(good.Questions, bad.Questions...)
		content, err := json.Marshal(out)
		require.NoError(t, err)
		return content
	}

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: partlyBroken()},
		llm.MockResponse{Content: batchContent(t, TypeMultipleChoice, 2)},
	)
	s := NewSynthesizer(mock, Config{MaxRetries: 2}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"study material"}, TypeMultipleChoice, DifficultyMedium, 5)
	require.NoError(t, err)
	assert.Len(t, qs, 5)
	assert.Equal(t, 2, mock.CallCount())
}

func TestSynthesizeValidationRetriesExhausted(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: invalidBatchContent(t, 5)},
		llm.MockResponse{Content: invalidBatchContent(t, 5)},
	)
	s := NewSynthesizer(mock, Config{MaxRetries: 1}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"study material"}, TypeMultipleChoice, DifficultyMedium, 5)
	assert.ErrorIs(t, err, ErrGenerationValidation)
	assert.Nil(t, qs, "no partial list on failure")
	assert.Equal(t, 2, mock.CallCount())
}

func TestSynthesizeServiceError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	s := NewSynthesizer(mock, Config{}, testLogger())

	_, err := s.Synthesize(context.Background(), []string{"study material"}, TypeEssay, DifficultyMedium, 5)
	assert.ErrorIs(t, err, ErrGenerationService)
}

func TestSynthesizeTimeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: context.DeadlineExceeded})
	s := NewSynthesizer(mock, Config{}, testLogger())

	_, err := s.Synthesize(context.Background(), []string{"study material"}, TypeEssay, DifficultyMedium, 5)
	assert.ErrorIs(t, err, ErrGenerationTimeout)
}

func TestSynthesizeCancellationPassesThrough(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: context.Canceled})
	s := NewSynthesizer(mock, Config{}, testLogger())

	_, err := s.Synthesize(context.Background(), []string{"study material"}, TypeEssay, DifficultyMedium, 5)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrGenerationService)
}

func TestSynthesizeUndecodableBatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": "nope"}`)})
	s := NewSynthesizer(mock, Config{}, testLogger())

	_, err := s.Synthesize(context.Background(), []string{"study material"}, TypeEssay, DifficultyMedium, 5)
	assert.ErrorIs(t, err, ErrGenerationService)
}

func TestSynthesizeRejectsBadInputs(t *testing.T) {
	mock := llm.NewMockProvider()
	s := NewSynthesizer(mock, Config{}, testLogger())
	ctx := context.Background()

	_, err := s.Synthesize(ctx, nil, TypeEssay, DifficultyMedium, 5)
	assert.ErrorIs(t, err, ErrGenerationValidation)

	_, err = s.Synthesize(ctx, []string{"x"}, Type("matching"), DifficultyMedium, 5)
	assert.ErrorIs(t, err, ErrGenerationValidation)

	_, err = s.Synthesize(ctx, []string{"x"}, TypeEssay, Difficulty("extreme"), 5)
	assert.ErrorIs(t, err, ErrGenerationValidation)

	assert.Equal(t, 0, mock.CallCount(), "invalid input must not reach the provider")
}

// typedStub answers each call based on the question type named in the
// system prompt, so concurrent sub-batches stay deterministic.
type typedStub struct {
	t *testing.T
}

func (p *typedStub) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	var typ Type
	switch {
	case strings.Contains(req.System, string(TypeMultipleChoice)):
		typ = TypeMultipleChoice
	case strings.Contains(req.System, string(TypeTrueFalse)):
		typ = TypeTrueFalse
	case strings.Contains(req.System, string(TypeEssay)):
		typ = TypeEssay
	default:
		return nil, fmt.Errorf("unexpected system prompt: %s", req.System)
	}

	var want struct {
		N int
	}
	if _, err := fmt.Sscanf(req.User[strings.LastIndex(req.User, "exactly"):], "exactly %d", &want.N); err != nil {
		return nil, err
	}

	return &llm.Response{Content: batchContent(p.t, typ, want.N), Model: "stub"}, nil
}

func (p *typedStub) ModelID() string { return "stub" }

func TestSynthesizeMixed(t *testing.T) {
	s := NewSynthesizer(&typedStub{t: t}, Config{}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"study material"}, TypeMixed, DifficultyMedium, 7)
	require.NoError(t, err)
	require.Len(t, qs, 7)

	counts := make(map[Type]int)
	for _, q := range qs {
		counts[q.Type]++
	}
	assert.Equal(t, 3, counts[TypeMultipleChoice])
	assert.Equal(t, 2, counts[TypeTrueFalse])
	assert.Equal(t, 2, counts[TypeEssay])

	// Round-robin interleave: the first three alternate across types.
	assert.Equal(t, TypeMultipleChoice, qs[0].Type)
	assert.Equal(t, TypeTrueFalse, qs[1].Type)
	assert.Equal(t, TypeEssay, qs[2].Type)
}

func TestSynthesizeTrueFalseAnswersAreCanonical(t *testing.T) {
	content, err := json.Marshal(map[string]any{
		"questions": []map[string]any{
			{
				"question":    "Water boils at 100 degrees Celsius at sea level.",
				"options":     []string{"true", "false"},
				"answer":      "TRUE",
				"explanation": "Standard atmospheric pressure boiling point.",
			},
			{
				"question": "Sound travels faster in air than in water.",
				"options":  []string{"O", "X"},
				"answer":   "x",
			},
			{
				"question": "DNS resolves names to addresses.",
				"options":  []string{"Yes", "No"},
				"answer":   "yes",
			},
			{
				"question": "HTTP is stateful by default.",
				"options":  []string{"T", "F"},
				"answer":   "F",
			},
			{
				"question": "TLS encrypts transport traffic.",
				"options":  []string{"True", "False"},
				"answer":   "True",
			},
		},
	})
	require.NoError(t, err)

	mock := llm.NewMockProvider(llm.MockResponse{Content: content})
	s := NewSynthesizer(mock, Config{}, testLogger())

	qs, err := s.Synthesize(context.Background(), []string{"physics and networking notes"}, TypeTrueFalse, DifficultyEasy, 5)
	require.NoError(t, err)
	require.Len(t, qs, 5)

	for _, q := range qs {
		assert.Equal(t, []string{"True", "False"}, q.Options)
		assert.Contains(t, []string{"True", "False"}, q.Answer)
	}
	assert.Equal(t, "True", qs[0].Answer)
	assert.Equal(t, "False", qs[1].Answer)
}
