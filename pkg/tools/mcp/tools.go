package mcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

// Tool names as presented to the model.
const (
	ListToolName    = "mcp_tool"
	ExecuteToolName = "mcp_execute_tool"
)

// errorKind prefixes every observation produced by a failed remote call.
const errorKind = "MCP"

const executeDescription = `Executes an action on the remote tool server. Use it when something should actually be changed or performed.
Check with mcp_tool which actions exist and which arguments they require, then pass a JSON request like this as the input:
{
  "jsonrpc": "2.0",
  "id": 1,
  "method": "tools/call",
  "params": {
    "name": "The name of the action, as listed by mcp_tool",
    "arguments": {
      "id": "The id of the entity to act on",
      "firstName": "The first name",
      "lastName": "The last name"
    }
  }
}
The JSON must be valid and must not contain comments or #. Do not change the jsonrpc, id and method fields.`

// Option customises the bridge tools.
type Option func(*bridge)

type bridge struct {
	settings Settings
	client   *http.Client
	logger   *zap.Logger
	strict   bool
}

// WithHTTPClient replaces the default HTTP client. The client's connection
// pool is shared by every request that dispatches through the tool.
func WithHTTPClient(client *http.Client) Option {
	return func(b *bridge) {
		if client != nil {
			b.client = client
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithEnvelopeValidation rejects malformed envelopes locally instead of
// forwarding them to the remote server.
func WithEnvelopeValidation() Option {
	return func(b *bridge) {
		b.strict = true
	}
}

func newBridge(settings Settings, opts []Option) *bridge {
	b := &bridge{
		settings: settings,
		client:   &http.Client{Timeout: settings.Timeout},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

// do sends req and returns the body verbatim. Non-2xx responses are
// reported as errors carrying the body so the model still sees it.
func (b *bridge) do(req *http.Request) (string, error) {
	resp, err := b.client.Do(req)
	if err != nil {
		return "", tools.NewError(errorKind, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", tools.NewError(errorKind, fmt.Errorf("read response: %w", err))
	}
	b.logger.Debug("remote tool server responded",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", tools.NewError(errorKind, fmt.Errorf("HTTP %d: %s", resp.StatusCode, body))
	}
	return string(body), nil
}

// ListTool fetches the remote action catalog.
type ListTool struct {
	*bridge
}

// NewListTool returns the mcp_tool capability.
func NewListTool(settings Settings, opts ...Option) *ListTool {
	return &ListTool{bridge: newBridge(settings, opts)}
}

func (t *ListTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{
		Name:        ListToolName,
		Description: "Lists all actions the remote tool server can perform on domain entities, with the arguments each one expects. The input is ignored.",
	}
}

// Invoke ignores its input and returns the catalog body verbatim.
func (t *ListTool) Invoke(ctx context.Context, _ string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.settings.ToolsURL(), nil)
	if err != nil {
		return "", tools.NewError(errorKind, err)
	}
	return t.do(req)
}

// ExecuteTool posts a model-written tools/call envelope to the remote server.
type ExecuteTool struct {
	*bridge
}

// NewExecuteTool returns the mcp_execute_tool capability.
func NewExecuteTool(settings Settings, opts ...Option) *ExecuteTool {
	return &ExecuteTool{bridge: newBridge(settings, opts)}
}

func (t *ExecuteTool) Spec() tools.ToolSpec {
	return tools.ToolSpec{Name: ExecuteToolName, Description: executeDescription}
}

// Invoke strips comments from input and forwards the result unchanged. The
// envelope's fixed fields are never rewritten here.
func (t *ExecuteTool) Invoke(ctx context.Context, input string) (string, error) {
	body := strings.TrimSpace(StripComments(input))
	if t.strict {
		if _, err := ParseEnvelope(body); err != nil {
			return "", tools.NewError(errorKind, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.settings.ExecutionURL(), strings.NewReader(body))
	if err != nil {
		return "", tools.NewError(errorKind, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json, text/event-stream")
	return t.do(req)
}

var (
	_ tools.Tool = (*ListTool)(nil)
	_ tools.Tool = (*ExecuteTool)(nil)
)
