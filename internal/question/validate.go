package question

import (
	"fmt"
	"strings"
)

// validate checks the structural invariants for a generated question.
// Returns nil if the question is usable, a descriptive error otherwise.
// The answer of a choice question is canonicalized to the matching option
// text so it compares verbatim after prefix stripping.
func validate(q *Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if strings.TrimSpace(q.Answer) == "" {
		return fmt.Errorf("empty answer")
	}

	switch q.Type {
	case TypeMultipleChoice:
		if len(q.Options) != 4 {
			return fmt.Errorf("multiple-choice needs 4 options, got %d", len(q.Options))
		}
		return matchAnswerToOption(q)

	case TypeTrueFalse:
		if len(q.Options) != 2 {
			return fmt.Errorf("true-false needs 2 options, got %d", len(q.Options))
		}
		return matchAnswerToOption(q)

	case TypeEssay:
		if len(q.Options) != 0 {
			return fmt.Errorf("essay must not have options")
		}
		return nil
	}

	return fmt.Errorf("unknown question type %q", q.Type)
}

func matchAnswerToOption(q *Question) error {
	for _, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(q.Answer)) {
			q.Answer = opt
			return nil
		}
	}
	return fmt.Errorf("answer %q not among options", q.Answer)
}
