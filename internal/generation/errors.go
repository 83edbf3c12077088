package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrEmptyQuestion is returned when a suggestion is requested without a question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrGenerationFailed is returned when a suggestion fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate answer")

	// ErrInvalidResponse is returned when the LLM response is empty or malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during answer generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
