package llm

import (
	"context"
	"encoding/json"
)

// Provider is the narrow capability the synthesizer and scorer depend on.
// It is the system's sole source of non-determinism and latency, so keeping
// it this small lets everything above it run against a deterministic fake.
type Provider interface {
	// Generate sends a prompt to the model and returns structured output.
	// When the request carries a Schema, Content is JSON validated against
	// that schema; otherwise it is the raw text wrapped as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes a single generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// User is the user message. Generation here is single-turn.
	User string

	// Schema, when set, instructs the provider to use its native
	// structured-output mechanism and validate the result.
	Schema *Schema

	// MaxTokens caps the response length. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0.
	Temperature float64
}

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "question-batch".
	Name string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the generated output, validated JSON when a Schema was
	// supplied.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
