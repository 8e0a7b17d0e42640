// Package mcp bridges the agent to a remote tool server speaking JSON-RPC
// "tools/call" requests over HTTP. It provides one tool that lists the remote
// actions and one that executes a model-written invocation envelope.
package mcp

import (
	"strings"
	"time"
)

// Settings locates the remote tool server.
type Settings struct {
	BaseURL       string        `yaml:"base_url"`
	ToolsPath     string        `yaml:"tools_path"`
	ExecutionPath string        `yaml:"execution_path"`
	Timeout       time.Duration `yaml:"timeout"`
}

// ToolsURL is the endpoint that lists the remote actions.
func (s Settings) ToolsURL() string {
	return joinURL(s.BaseURL, s.ToolsPath)
}

// ExecutionURL is the endpoint that executes a tools/call envelope.
func (s Settings) ExecutionURL() string {
	return joinURL(s.BaseURL, s.ExecutionPath)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
