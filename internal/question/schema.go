package question

import "github.com/Kimsunjeung/cert-exam-gen/internal/llm"

// batchSchema is the JSON Schema each generation call must satisfy.
// Structural invariants beyond this (option counts, answer membership) are
// enforced by validate after postprocessing.
var batchSchema = &llm.Schema{
	Name: "question-batch",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":       map[string]any{"type": "integer"},
						"type":     map[string]any{"type": "string"},
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"answer":      map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
					},
					"required": []any{"question", "answer"},
				},
			},
		},
		"required": []any{"questions"},
	},
}
