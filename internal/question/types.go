package question

// Type identifies a question style. Mixed is a request-level type only;
// every generated question carries one of the concrete types.
type Type string

const (
	TypeMultipleChoice Type = "multiple-choice"
	TypeTrueFalse      Type = "true-false"
	TypeEssay          Type = "essay"
	TypeMixed          Type = "mixed"
)

// ConcreteTypes lists the generatable types in their canonical order.
var ConcreteTypes = []Type{TypeMultipleChoice, TypeTrueFalse, TypeEssay}

// Valid reports whether t is an accepted request type.
func (t Type) Valid() bool {
	switch t {
	case TypeMultipleChoice, TypeTrueFalse, TypeEssay, TypeMixed:
		return true
	}
	return false
}

// Difficulty maps to prompting intensity, not a numeric scale.
type Difficulty string

const (
	DifficultyEasy       Difficulty = "easy"
	DifficultyMedium     Difficulty = "medium"
	DifficultyMediumHigh Difficulty = "medium-high"
	DifficultyHigh       Difficulty = "high"
)

// Valid reports whether d is an accepted difficulty level.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyMediumHigh, DifficultyHigh:
		return true
	}
	return false
}

// Requested question counts are clamped into this range. The handler clamps
// too, but the synthesizer never trusts its caller.
const (
	MinCount = 5
	MaxCount = 50
)

// ClampCount forces n into [MinCount, MaxCount].
func ClampCount(n int) int {
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// Question is a single generated exam item. Options are bare choice texts,
// enumeration prefixes stripped; rendering them is the client's concern.
type Question struct {
	ID          string   `json:"id"`
	Type        Type     `json:"type"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}
