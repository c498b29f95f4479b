package quality

import (
	"strings"

	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
)

// heuristic computes a deterministic fallback value for one metric.
// These are coarse signals, not judgments: keyword overlap for
// faithfulness, question-length bands for relevancy, option counts for
// precision, explanation presence for recall.
func heuristic(metric, contextText string, questions []question.Question) float64 {
	switch metric {
	case metricFaithfulness:
		return heuristicFaithfulness(contextText, questions)
	case metricAnswerRelevancy:
		return heuristicRelevancy(questions)
	case metricContextPrecision:
		return heuristicPrecision(questions)
	case metricContextRecall:
		return heuristicRecall(questions)
	}
	return 0
}

func heuristicFaithfulness(contextText string, questions []question.Question) float64 {
	contextWords := wordSet(contextText)
	if len(contextWords) == 0 || len(questions) == 0 {
		return 0
	}

	var total float64
	for _, q := range questions {
		words := wordSet(q.Prompt)
		for w := range wordSet(q.Answer) {
			words[w] = struct{}{}
		}
		overlap := 0
		for w := range words {
			if _, ok := contextWords[w]; ok {
				overlap++
			}
		}
		// Ten shared terms is treated as fully grounded.
		total += clamp01(float64(overlap) / 10)
	}
	return total / float64(len(questions))
}

func heuristicRelevancy(questions []question.Question) float64 {
	if len(questions) == 0 {
		return 0
	}
	var total float64
	for _, q := range questions {
		n := len([]rune(q.Prompt))
		switch {
		case n >= 20 && n <= 200:
			total += 0.85
		case (n >= 10 && n < 20) || (n > 200 && n <= 300):
			total += 0.7
		default:
			total += 0.5
		}
	}
	return total / float64(len(questions))
}

func heuristicPrecision(questions []question.Question) float64 {
	if len(questions) == 0 {
		return 0
	}
	var total float64
	for _, q := range questions {
		switch {
		case len(q.Options) == 4:
			total += 0.9
		case len(q.Options) >= 3:
			total += 0.8
		case len(q.Options) > 0:
			total += 0.6
		default:
			total += 0.75
		}
	}
	return total / float64(len(questions))
}

func heuristicRecall(questions []question.Question) float64 {
	if len(questions) == 0 {
		return 0
	}
	var total float64
	for _, q := range questions {
		if len([]rune(q.Explanation)) > 10 {
			total += 0.85
		} else {
			total += 0.6
		}
	}
	return total / float64(len(questions))
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}
