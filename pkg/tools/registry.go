package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry errors returned by Register and NewRegistry.
var (
	ErrNilTool       = errors.New("tool is nil")
	ErrUnnamedTool   = errors.New("tool name is empty")
	ErrDuplicateTool = errors.New("tool already registered")
)

// Registry resolves tool names to executable tools. Tools are registered at
// startup; after that the registry is only read and is safe for concurrent
// dispatch from many in-flight requests.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	index   map[string]int
	logger  *zap.Logger
}

type entry struct {
	tool Tool
	spec ToolSpec
}

// RegistryOption customises a Registry.
type RegistryOption func(*Registry)

// WithLogger attaches a logger used to record tool failures.
func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry builds a registry from tools in catalog order.
func NewRegistry(tools []Tool, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		index:  make(map[string]int, len(tools)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends a tool to the catalog. Names are unique ignoring case.
func (r *Registry) Register(tool Tool) error {
	if tool == nil {
		return ErrNilTool
	}
	spec := tool.Spec()
	key := normalizeName(spec.Name)
	if key == "" {
		return ErrUnnamedTool
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.index[key]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, spec.Name)
	}
	r.index[key] = len(r.entries)
	r.entries = append(r.entries, entry{tool: tool, spec: spec})
	return nil
}

// Lookup finds a tool by name, ignoring case and surrounding space.
func (r *Registry) Lookup(name string) (Tool, ToolSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[normalizeName(name)]
	if !ok {
		return nil, ToolSpec{}, false
	}
	return r.entries[i].tool, r.entries[i].spec, true
}

// Dispatch invokes the named tool and always returns an observation for the
// scratchpad, never an error.
//
// An unknown name yields
//
//	Tool not found: "<name>". Available tools: <a>, <b>.
//
// so the model can correct its choice. A tool error is rendered through
// Observation as "<label> error: <detail>".
func (r *Registry) Dispatch(ctx context.Context, name, input string) string {
	tool, spec, ok := r.Lookup(name)
	if !ok {
		r.logger.Warn("tool not found", zap.String("tool", name))
		return fmt.Sprintf("Tool not found: %q. Available tools: %s.", strings.TrimSpace(name), strings.Join(r.Names(), ", "))
	}

	out, err := tool.Invoke(ctx, input)
	if err != nil {
		r.logger.Warn("tool failed", zap.String("tool", spec.Name), zap.Error(err))
		return Observation(spec.Name, err)
	}
	return out
}

// Specs returns a snapshot of the tool specifications in registration order.
func (r *Registry) Specs() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]ToolSpec, len(r.entries))
	for i, e := range r.entries {
		specs[i] = e.spec
	}
	return specs
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	specs := r.Specs()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
