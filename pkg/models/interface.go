// Package models wraps text-completion providers behind a single interface.
// Each provider turns a prompt plus stop sequences into completion text and
// nothing more; prompt construction and parsing live in the agent package.
package models

import (
	"context"
)

// LLM is the completion gateway used by the agent loop and the answer
// synthesizer. Generation must halt before emitting any of the stop
// sequences; implementations return the text generated up to that point.
type LLM interface {
	Generate(ctx context.Context, prompt string, stop []string) (string, error)
}
