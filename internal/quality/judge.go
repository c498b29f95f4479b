package quality

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Kimsunjeung/cert-exam-gen/internal/llm"
	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
)

const judgeSystemPrompt = `You are a strict evaluator of exam questions generated from study material.
Rate the requested metric on a scale from 0.0 to 1.0 and respond with JSON only.`

// metricRubrics describe what each metric measures, phrased for the judge.
var metricRubrics = map[string]string{
	metricFaithfulness:     "Faithfulness: the fraction of answer content that is directly supported by the study material. Unsupported claims lower the score.",
	metricAnswerRelevancy:  "Answer relevancy: how well each answer actually addresses its question. Vague, partial, or off-topic answers lower the score.",
	metricContextPrecision: "Context precision: the fraction of the study material that is relevant to the questions drawn from it. Large swaths of unused material lower the score.",
	metricContextRecall:    "Context recall: the fraction of information needed to answer the questions that is present in the study material. Questions requiring outside knowledge lower the score.",
}

var ratingSchema = &llm.Schema{
	Name: "metric-rating",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 1,
			},
		},
		"required": []any{"score"},
	},
}

// judge asks the model to rate one metric over the sampled questions.
func (s *Scorer) judge(ctx context.Context, metric, contextText string, sample []question.Question) (float64, error) {
	rubric, ok := metricRubrics[metric]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", metric)
	}

	var b strings.Builder
	b.WriteString("Metric to rate:\n")
	b.WriteString(rubric)
	b.WriteString("\n\nStudy material (excerpt):\n")
	b.WriteString(contextText)
	b.WriteString("\n\nGenerated questions:\n")
	for i, q := range sample {
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, q.Type, q.Prompt)
		if len(q.Options) > 0 {
			fmt.Fprintf(&b, "   Options: %s\n", strings.Join(q.Options, " | "))
		}
		fmt.Fprintf(&b, "   Answer: %s\n", q.Answer)
	}
	b.WriteString("\nRespond with {\"score\": <0.0-1.0>}.")

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      judgeSystemPrompt,
		User:        b.String(),
		Schema:      ratingSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return 0, err
	}

	var out struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return 0, fmt.Errorf("decode rating: %w", err)
	}

	return clamp01(out.Score), nil
}
