package agent

import (
	"context"
	"strings"

	"github.com/Protocol-Lattice/react-agent/pkg/models"
)

// DefaultAnswerTemplate is filled with the loop's terminal observation and
// the original request.
const DefaultAnswerTemplate = `Do not generate code.
Keep the answer as short as possible. Always quote the context in your answer.
Context: {toolResult}
Question: {request}
Final Answer:`

// Synthesizer turns the loop's terminal observation into the answer returned
// to the caller with a single bounded completion.
type Synthesizer struct {
	model    models.LLM
	stop     []string
	template string
}

// NewSynthesizer uses DefaultAnswerTemplate when template is empty.
func NewSynthesizer(model models.LLM, stop []string, template string) *Synthesizer {
	if strings.TrimSpace(template) == "" {
		template = DefaultAnswerTemplate
	}
	return &Synthesizer{model: model, stop: stop, template: template}
}

// Prompt fills the template. Placeholders inside the substituted values are
// left alone.
func (s *Synthesizer) Prompt(toolResult, request string) string {
	return strings.NewReplacer(
		"{toolResult}", toolResult,
		"{request}", request,
	).Replace(s.template)
}

// Synthesize issues the completion and returns its trimmed text. Errors come
// straight from the model.
func (s *Synthesizer) Synthesize(ctx context.Context, toolResult, request string) (string, error) {
	out, err := s.model.Generate(ctx, s.Prompt(toolResult, request), s.stop)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
