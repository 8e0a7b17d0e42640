package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Fixed envelope fields of a remote tool invocation.
const (
	JSONRPCVersion = "2.0"
	MethodToolCall = "tools/call"
)

// ErrInvalidEnvelope reports a request body that is not a tools/call envelope.
var ErrInvalidEnvelope = errors.New("invalid envelope")

// Envelope is the JSON-RPC request sent to the remote execution endpoint.
type Envelope struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  Params `json:"params"`
}

// Params names the remote action and carries its arguments.
type Params struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// NewEnvelope builds a tools/call request for the named remote action.
func NewEnvelope(id int64, name string, arguments map[string]any) Envelope {
	if arguments == nil {
		arguments = map[string]any{}
	}
	return Envelope{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  MethodToolCall,
		Params:  Params{Name: name, Arguments: arguments},
	}
}

// ParseEnvelope decodes body and checks the fixed fields. The arguments are
// not validated against any schema; that is left to the remote server.
func ParseEnvelope(body string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if env.JSONRPC != JSONRPCVersion {
		return Envelope{}, fmt.Errorf("%w: jsonrpc must be %q, got %q", ErrInvalidEnvelope, JSONRPCVersion, env.JSONRPC)
	}
	if env.Method != MethodToolCall {
		return Envelope{}, fmt.Errorf("%w: method must be %q, got %q", ErrInvalidEnvelope, MethodToolCall, env.Method)
	}
	if strings.TrimSpace(env.Params.Name) == "" {
		return Envelope{}, fmt.Errorf("%w: params.name is empty", ErrInvalidEnvelope)
	}
	return env, nil
}
