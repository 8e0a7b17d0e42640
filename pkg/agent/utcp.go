package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/universal-tool-calling-protocol/go-utcp/src/providers/base"
	utcptools "github.com/universal-tool-calling-protocol/go-utcp/src/tools"
)

// UTCPContextKey is the key in the UTCP call context under which callers may
// pass a context.Context for cancellation.
const UTCPContextKey = "context"

// AsUTCPTool exposes the agent as a UTCP tool with an in-process handler.
// The tool takes {"input": string} and returns the answer, status and run id.
// A request that ends without an answer is not an error for the caller.
func (a *Agent) AsUTCPTool(name, description string) utcptools.Tool {
	providerName := strings.TrimSpace(name)
	if parts := strings.Split(providerName, "."); len(parts) > 1 {
		providerName = parts[0]
	}
	return utcptools.Tool{
		Name:        name,
		Description: description,
		Provider: &base.BaseProvider{
			Name:         providerName,
			ProviderType: base.ProviderCLI,
		},
		Inputs: utcptools.ToolInputOutputSchema{
			Type: "object",
			Properties: map[string]any{
				"input": map[string]any{
					"type":        "string",
					"description": "The question for the agent.",
				},
			},
			Required: []string{"input"},
		},
		Outputs: utcptools.ToolInputOutputSchema{
			Type: "object",
			Properties: map[string]any{
				"answer": map[string]any{"type": "string"},
				"status": map[string]any{"type": "string"},
				"run_id": map[string]any{"type": "string"},
			},
		},
		Handler: func(callCtx map[string]interface{}, inputs map[string]interface{}) (map[string]interface{}, error) {
			input, ok := inputs["input"].(string)
			if !ok || strings.TrimSpace(input) == "" {
				return nil, fmt.Errorf("missing or invalid 'input'")
			}
			res, err := a.Process(requestContext(callCtx), input)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"answer": res.Answer,
				"status": string(res.Status),
				"run_id": res.RunID,
			}, nil
		},
	}
}

func requestContext(callCtx map[string]interface{}) context.Context {
	if ctx, ok := callCtx[UTCPContextKey].(context.Context); ok && ctx != nil {
		return ctx
	}
	return context.Background()
}
