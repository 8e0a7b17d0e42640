package models

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// DummyLLM is a lightweight model implementation useful for local testing
// without API calls. Scripted responses are returned in order; once they run
// out it echoes the last non-empty prompt line behind Prefix. Stop sequences
// are applied the same way a remote provider would apply them.
type DummyLLM struct {
	Prefix string

	mu        sync.Mutex
	responses []string
	prompts   []string
	stops     [][]string
}

func NewDummyLLM(responses ...string) *DummyLLM {
	return &DummyLLM{Prefix: "Dummy response:", responses: responses}
}

func (d *DummyLLM) Generate(ctx context.Context, prompt string, stop []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.prompts = append(d.prompts, prompt)
	d.stops = append(d.stops, append([]string(nil), stop...))

	if len(d.responses) > 0 {
		next := d.responses[0]
		d.responses = d.responses[1:]
		return cutAtStop(next, stop), nil
	}
	return cutAtStop(fmt.Sprintf("%s %s", d.Prefix, lastLine(prompt)), stop), nil
}

// Prompts returns every prompt received so far, in call order.
func (d *DummyLLM) Prompts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.prompts...)
}

// Stops returns the stop sequences passed with each call.
func (d *DummyLLM) Stops() [][]string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]string(nil), d.stops...)
}

func lastLine(prompt string) string {
	lines := strings.Split(prompt, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if candidate := strings.TrimSpace(lines[i]); candidate != "" {
			return candidate
		}
	}
	return "<empty prompt>"
}

var _ LLM = (*DummyLLM)(nil)
