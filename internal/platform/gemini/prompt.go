package gemini

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/phrazzld/medcards-api/internal/generation"
)

//go:embed prompts/suggest_answer.tmpl
var suggestAnswerTemplate string

var promptTemplate = template.Must(template.New("suggest_answer").Parse(suggestAnswerTemplate))

// promptData is the data the prompt template is executed with.
type promptData struct {
	Question string
	Category string
	Theme    string
}

func buildPrompt(req generation.AnswerRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err := promptTemplate.Execute(&buf, promptData{
		Question: strings.TrimSpace(req.Question),
		Category: strings.TrimSpace(req.Category),
		Theme:    strings.TrimSpace(req.Theme),
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
