package question

import (
	"regexp"
	"strings"
)

// choicePrefixRe matches enumeration prefixes models like to emit on
// options: "A)", "B.", "①", "(1)", "2)". The prefix is a rendering
// concern, never data.
var choicePrefixRe = regexp.MustCompile(`(?i)^\s*(?:[A-D]\s*[).\s]|[①-⑳]|\(?\d{1,2}\)?[.)])\s*`)

// StripChoicePrefix removes a leading enumeration prefix from a choice text.
func StripChoicePrefix(s string) string {
	return strings.TrimSpace(choicePrefixRe.ReplaceAllString(s, ""))
}

var explanationWSRe = regexp.MustCompile(`\s+\n`)

// postprocess normalizes a raw generated question in place: option
// prefixes stripped, prompt newlines unified, explanation whitespace
// trimmed.
func postprocess(q *Question) {
	q.Prompt = strings.TrimSpace(strings.ReplaceAll(q.Prompt, "\r\n", "\n"))
	q.Answer = StripChoicePrefix(q.Answer)
	q.Explanation = strings.TrimSpace(explanationWSRe.ReplaceAllString(q.Explanation, "\n"))

	for i, opt := range q.Options {
		q.Options[i] = StripChoicePrefix(opt)
	}

	// Essay questions carry no options, whatever the model thought.
	if q.Type == TypeEssay {
		q.Options = nil
	}

	if q.Type == TypeTrueFalse {
		canonicalizeTrueFalse(q)
	}
}

// canonicalizeTrueFalse maps true/false options and answers onto the
// canonical English labels when they are recognizable equivalents.
func canonicalizeTrueFalse(q *Question) {
	for i, opt := range q.Options {
		switch strings.ToLower(strings.TrimSpace(opt)) {
		case "true", "t", "yes", "o":
			q.Options[i] = "True"
		case "false", "f", "no", "x":
			q.Options[i] = "False"
		}
	}
	switch strings.ToLower(strings.TrimSpace(q.Answer)) {
	case "true", "t", "yes", "o":
		q.Answer = "True"
	case "false", "f", "no", "x":
		q.Answer = "False"
	}
}
