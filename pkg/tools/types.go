// Package tools defines the capability abstraction the agent loop dispatches
// through. Every invocation yields a textual observation; failures inside a
// tool are converted to observations at the registry boundary and never
// escape as errors.
package tools

import (
	"context"
	"errors"
)

// ToolSpec describes how the agent should present a tool to the model.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Tool exposes its descriptor and an invocation handler. Input is the raw
// "Action Input" text produced by the model.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, input string) (string, error)
}

// InvokeFunc is the signature of a tool body.
type InvokeFunc func(ctx context.Context, input string) (string, error)

type funcTool struct {
	spec   ToolSpec
	invoke InvokeFunc
}

// Func adapts a descriptor and a plain function into a Tool.
func Func(spec ToolSpec, invoke InvokeFunc) Tool {
	return &funcTool{spec: spec, invoke: invoke}
}

func (t *funcTool) Spec() ToolSpec { return t.spec }

func (t *funcTool) Invoke(ctx context.Context, input string) (string, error) {
	return t.invoke(ctx, input)
}

// Error is a failure raised inside a tool. Kind names the capability family
// ("SQL execution", "MCP") and prefixes the rendered observation.
type Error struct {
	Kind string
	Err  error
}

// NewError wraps err with the given kind.
func NewError(kind string, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	msg := "<nil>"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind == "" {
		return "Error: " + msg
	}
	return e.Kind + " error: " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Observation renders err the way the model sees it.
func Observation(toolName string, err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Error()
	}
	return toolName + " error: " + err.Error()
}
