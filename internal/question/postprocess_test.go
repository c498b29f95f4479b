package question

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripChoicePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "A) TCP handshake", want: "TCP handshake"},
		{in: "B. UDP datagram", want: "UDP datagram"},
		{in: "c) lowercase letter", want: "lowercase letter"},
		{in: "D  spaced letter", want: "spaced letter"},
		{in: "(1) parenthesized number", want: "parenthesized number"},
		{in: "2) bare number", want: "bare number"},
		{in: "12. two digit number", want: "two digit number"},
		{in: "① circled digit", want: "circled digit"},
		{in: "  A)  leading whitespace", want: "leading whitespace"},
		{in: "No prefix here", want: "No prefix here"},
		{in: "AES encryption", want: "AES encryption"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StripChoicePrefix(tt.in), "input %q", tt.in)
	}
}

func TestPostprocessMultipleChoice(t *testing.T) {
	q := Question{
		Type:    TypeMultipleChoice,
		Prompt:  "  Which layer handles routing?\r\n",
		Options: []string{"A) Network", "B) Transport", "C) Session", "D) Physical"},
		Answer:  "A) Network",
	}

	postprocess(&q)

	assert.Equal(t, "Which layer handles routing?", q.Prompt)
	assert.Equal(t, []string{"Network", "Transport", "Session", "Physical"}, q.Options)
	assert.Equal(t, "Network", q.Answer)
}

func TestPostprocessEssayDropsOptions(t *testing.T) {
	q := Question{
		Type:    TypeEssay,
		Prompt:  "Explain the handshake.",
		Options: []string{"stray", "options"},
		Answer:  "A reference answer.",
	}

	postprocess(&q)

	assert.Nil(t, q.Options)
}

func TestPostprocessTrueFalseCanonicalization(t *testing.T) {
	tests := []struct {
		name        string
		options     []string
		answer      string
		wantOptions []string
		wantAnswer  string
	}{
		{
			name:        "lowercase",
			options:     []string{"true", "false"},
			answer:      "true",
			wantOptions: []string{"True", "False"},
			wantAnswer:  "True",
		},
		{
			name:        "single letters",
			options:     []string{"T", "F"},
			answer:      "f",
			wantOptions: []string{"True", "False"},
			wantAnswer:  "False",
		},
		{
			name:        "yes no",
			options:     []string{"Yes", "No"},
			answer:      "no",
			wantOptions: []string{"True", "False"},
			wantAnswer:  "False",
		},
		{
			name:        "o x marks",
			options:     []string{"O", "X"},
			answer:      "O",
			wantOptions: []string{"True", "False"},
			wantAnswer:  "True",
		},
		{
			name:        "already canonical",
			options:     []string{"True", "False"},
			answer:      "True",
			wantOptions: []string{"True", "False"},
			wantAnswer:  "True",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{
				Type:    TypeTrueFalse,
				Prompt:  "Water boils at 100 degrees Celsius at sea level.",
				Options: tt.options,
				Answer:  tt.answer,
			}
			postprocess(&q)
			assert.Equal(t, tt.wantOptions, q.Options)
			assert.Equal(t, tt.wantAnswer, q.Answer)
		})
	}
}

func TestPostprocessExplanationWhitespace(t *testing.T) {
	q := Question{
		Type:        TypeEssay,
		Prompt:      "Describe the process.",
		Answer:      "Reference.",
		Explanation: "line one   \nline two\n",
	}

	postprocess(&q)

	assert.Equal(t, "line one\nline two", q.Explanation)
}
