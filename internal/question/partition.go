package question

// Split is the per-type allocation for a mixed-type request.
type Split struct {
	MultipleChoice int
	TrueFalse      int
	Essay          int
}

// Total returns the sum of all allocations.
func (s Split) Total() int {
	return s.MultipleChoice + s.TrueFalse + s.Essay
}

// Partition divides count across the three concrete types: an even
// three-way split with the first remainder item going to multiple-choice
// and the second to true-false. Pure and deterministic.
func Partition(count int) Split {
	base := count / 3
	rem := count % 3

	s := Split{
		MultipleChoice: base,
		TrueFalse:      base,
		Essay:          base,
	}
	if rem >= 1 {
		s.MultipleChoice++
	}
	if rem >= 2 {
		s.TrueFalse++
	}
	return s
}

// Count returns the allocation for a concrete type.
func (s Split) Count(t Type) int {
	switch t {
	case TypeMultipleChoice:
		return s.MultipleChoice
	case TypeTrueFalse:
		return s.TrueFalse
	case TypeEssay:
		return s.Essay
	}
	return 0
}
