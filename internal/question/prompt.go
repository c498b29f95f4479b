package question

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are an expert item writer for professional certification exams.
Generate exactly %d %s questions at %s difficulty from the supplied study material.
%s
Every question must be answerable from the material alone. Include the correct answer and a short explanation for each question.
Respond with JSON only.`

// difficultyGuidance maps a difficulty level to the prompting intensity it
// stands for. Threaded into every generation call, never defaulted.
var difficultyGuidance = map[Difficulty]string{
	DifficultyEasy:       "Target recall: definitions, stated facts, and direct lookups from the material.",
	DifficultyMedium:     "Target comprehension: restate, classify, and apply single concepts from the material.",
	DifficultyMediumHigh: "Target application and analysis: combine two or more ideas from the material to reach the answer.",
	DifficultyHigh:       "Target multi-step inference: edge cases, tracing consequences, and reasoning across sections of the material.",
}

var typeGuidance = map[Type]string{
	TypeMultipleChoice: "Each question has exactly 4 options with exactly one correct answer. Distractors must be plausible, drawn from common misunderstandings of the material. Do not prefix options with letters or numbers.",
	TypeTrueFalse:      `Each question is a statement to judge. Options are exactly ["True", "False"] and the answer is one of them.`,
	TypeEssay:          "Each question is an open prompt. Provide no options; the answer is a model reference answer covering the points a full response should make.",
}

func buildSystemPrompt(t Type, difficulty Difficulty, count int) string {
	return fmt.Sprintf(systemPromptTemplate, count, t, difficulty,
		difficultyGuidance[difficulty]+"\n"+typeGuidance[t])
}

func buildUserPrompt(contextChunk string, t Type, count, startID int) string {
	var b strings.Builder

	b.WriteString("Study material:\n")
	b.WriteString(contextChunk)
	b.WriteString("\n\nJSON schema:\n")
	fmt.Fprintf(&b, `{
  "questions": [
    {
      "id": %d,
      "type": %q,
      "question": "question text",
      "options": ["option 1", "option 2", "option 3", "option 4"],
      "answer": "the correct answer",
      "explanation": "why the answer is correct"
    }
  ]
}`, startID, t)
	fmt.Fprintf(&b, "\n\nGenerate exactly %d questions.", count)

	return b.String()
}
