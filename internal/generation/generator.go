package generation

import (
	"context"
	"strings"
)

// AnswerRequest describes the card a suggestion is wanted for.
type AnswerRequest struct {
	Question string
	Category string
	Theme    string
}

// Validate checks that the request carries a question.
func (r AnswerRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return ErrEmptyQuestion
	}
	return nil
}

// Generator defines the interface for producing suggested answers with a
// language model. It is the boundary between the application core and the
// external LLM service.
type Generator interface {
	// SuggestAnswer returns a concise answer to the question in req.
	// Failures are reported with the errors declared in this package.
	SuggestAnswer(ctx context.Context, req AnswerRequest) (string, error)
}
