package contextprep

import (
	"errors"
	"strings"
)

// ErrEmptyDocument is returned when the extracted text is empty or
// whitespace-only. Callers must not proceed to synthesis.
var ErrEmptyDocument = errors.New("document text is empty")

const defaultChunkBudget = 8000

// Preparer splits normalized document text into prompt-sized context chunks.
// Chunking is deterministic: the same text always yields the same boundaries.
type Preparer struct {
	budget int // max chunk size in runes
}

// NewPreparer creates a Preparer with the given chunk budget in runes.
// Non-positive budgets fall back to the default.
func NewPreparer(budget int) *Preparer {
	if budget <= 0 {
		budget = defaultChunkBudget
	}
	return &Preparer{budget: budget}
}

// Prepare normalizes text and splits it into ordered chunks, each within the
// prompt budget. Split points prefer paragraph boundaries, then sentence
// boundaries; a hard cut happens only when a single sentence exceeds the
// budget.
func (p *Preparer) Prepare(text string) ([]string, error) {
	normalized := Normalize(text)
	if normalized == "" {
		return nil, ErrEmptyDocument
	}

	if len([]rune(normalized)) <= p.budget {
		return []string{normalized}, nil
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
		currentLen = 0
	}

	for _, para := range strings.Split(normalized, "\n\n") {
		paraLen := len([]rune(para))

		if paraLen > p.budget {
			// Paragraph alone exceeds the budget: fall back to sentences.
			flush()
			for _, sent := range splitSentences(para) {
				sentLen := len([]rune(sent))
				if currentLen > 0 && currentLen+sentLen+1 > p.budget {
					flush()
				}
				if sentLen > p.budget {
					// Last resort: hard cut an oversized sentence.
					for _, piece := range hardCut(sent, p.budget) {
						chunks = append(chunks, piece)
					}
					continue
				}
				if currentLen > 0 {
					current.WriteString(" ")
					currentLen++
				}
				current.WriteString(sent)
				currentLen += sentLen
			}
			flush()
			continue
		}

		if currentLen > 0 && currentLen+paraLen+2 > p.budget {
			flush()
		}
		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(para)
		currentLen += paraLen
	}
	flush()

	return chunks, nil
}

// splitSentences breaks a paragraph at sentence-final punctuation followed
// by whitespace. Good enough for prose; code blocks stay intact because
// they rarely match.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			if i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\n') {
				s := strings.TrimSpace(string(runes[start : i+1]))
				if s != "" {
					sentences = append(sentences, s)
				}
				start = i + 1
			}
		}
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func hardCut(text string, budget int) []string {
	runes := []rune(text)
	var pieces []string
	for len(runes) > 0 {
		n := budget
		if n > len(runes) {
			n = len(runes)
		}
		pieces = append(pieces, strings.TrimSpace(string(runes[:n])))
		runes = runes[n:]
	}
	return pieces
}
