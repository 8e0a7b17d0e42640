package agent

import (
	"errors"
	"fmt"
	"strings"
)

// Step is one iteration of the loop. Action and ActionInput are empty when
// the model output could not be parsed; Observation then holds the parse
// error shown back to the model.
type Step struct {
	Thought     string `json:"thought"`
	Action      string `json:"action,omitempty"`
	ActionInput string `json:"action_input,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// Scratchpad is the ordered record of steps replayed into every prompt.
type Scratchpad []Step

// Render formats the steps in the layout the prompt asks the model to use.
// The result continues a prompt that ends with "Thought:".
func (s Scratchpad) Render() string {
	var sb strings.Builder
	for _, step := range s {
		if thought := strings.TrimSpace(step.Thought); thought != "" {
			sb.WriteString(" ")
			sb.WriteString(thought)
		}
		if step.Action != "" {
			sb.WriteString("\nAction: ")
			sb.WriteString(step.Action)
			sb.WriteString("\nAction Input: ")
			sb.WriteString(step.ActionInput)
		}
		sb.WriteString("\nObservation: ")
		sb.WriteString(step.Observation)
		sb.WriteString("\nThought:")
	}
	return sb.String()
}

// LastObservation returns the observation of the most recent step, or "".
func (s Scratchpad) LastObservation() string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1].Observation
}

// Status is the terminal outcome of a request.
type Status string

const (
	StatusAnswered  Status = "answered"
	StatusNoAnswer  Status = "no_answer"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
)

// Result is returned by Process. Answer is set only for StatusAnswered.
type Result struct {
	Answer     string     `json:"answer"`
	Status     Status     `json:"status"`
	Steps      Scratchpad `json:"steps,omitempty"`
	Iterations int        `json:"iterations"`
	RunID      string     `json:"run_id"`
}

// ErrCancelled is returned when the caller's context ends while a request is
// in flight. The context error is wrapped alongside it.
var ErrCancelled = errors.New("agent: request cancelled")

// ModelError reports a failure of the completion provider. It is fatal to
// the request.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("agent: model provider: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }
