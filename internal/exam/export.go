package exam

import (
	"math"
	"time"

	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
	"github.com/Kimsunjeung/cert-exam-gen/internal/session"
)

// Export is the flat, serialization-stable form of a question set handed
// to external consumers. Absent fields stay absent: an essay question has
// no options key, an unscored set has no quality block.
type Export struct {
	SourceLabel    string              `json:"source_label"`
	QuestionType   question.Type       `json:"question_type"`
	Difficulty     question.Difficulty `json:"difficulty"`
	GeneratedAt    time.Time           `json:"generated_at"`
	QualityPercent *QualityPercent     `json:"quality_percent,omitempty"`
	Questions      []ExportQuestion    `json:"questions"`
}

// QualityPercent holds the four metrics as percentages, one decimal.
type QualityPercent struct {
	Faithfulness     float64 `json:"faithfulness"`
	AnswerRelevancy  float64 `json:"answer_relevancy"`
	ContextPrecision float64 `json:"context_precision"`
	ContextRecall    float64 `json:"context_recall"`
	Average          float64 `json:"average"`
}

// ExportQuestion is one exam item in export form.
type ExportQuestion struct {
	Index       int           `json:"index"`
	Type        question.Type `json:"type"`
	Prompt      string        `json:"prompt"`
	Options     []string      `json:"options,omitempty"`
	Answer      string        `json:"answer"`
	Explanation string        `json:"explanation,omitempty"`
}

// BuildExport flattens a question set for delivery.
func BuildExport(set *session.QuestionSet) Export {
	exp := Export{
		SourceLabel:  set.SourceDocumentLabel,
		QuestionType: set.QuestionType,
		Difficulty:   set.Difficulty,
		GeneratedAt:  set.CreatedAt,
		Questions:    make([]ExportQuestion, 0, len(set.Questions)),
	}

	if s := set.QualityScores; s != nil {
		exp.QualityPercent = &QualityPercent{
			Faithfulness:     toPercent(s.Faithfulness),
			AnswerRelevancy:  toPercent(s.AnswerRelevancy),
			ContextPrecision: toPercent(s.ContextPrecision),
			ContextRecall:    toPercent(s.ContextRecall),
			Average:          toPercent(s.Average()),
		}
	}

	for i, q := range set.Questions {
		exp.Questions = append(exp.Questions, ExportQuestion{
			Index:       i + 1,
			Type:        q.Type,
			Prompt:      q.Prompt,
			Options:     q.Options,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		})
	}

	return exp
}

func toPercent(v float64) float64 {
	return math.Round(v*1000) / 10
}
