package question

import "errors"

var (
	// ErrGenerationService signals the outbound model call failed
	// (network, auth, rate limit) after bounded retries.
	ErrGenerationService = errors.New("generation service failed")

	// ErrGenerationTimeout signals the caller-imposed deadline elapsed
	// before the full set was produced. No partial list is returned.
	ErrGenerationTimeout = errors.New("generation timed out")

	// ErrGenerationValidation signals the model could not produce the
	// requested number of structurally valid questions within the retry
	// bound.
	ErrGenerationValidation = errors.New("generated questions failed validation")
)
