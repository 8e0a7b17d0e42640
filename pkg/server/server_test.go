package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Protocol-Lattice/react-agent/pkg/agent"
	"github.com/Protocol-Lattice/react-agent/pkg/models"
	"github.com/Protocol-Lattice/react-agent/pkg/runtime"
	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

type fakeProcessor struct {
	result agent.Result
	err    error
	input  string
	ctx    context.Context
}

func (f *fakeProcessor) Process(ctx context.Context, input string) (agent.Result, error) {
	f.input = input
	f.ctx = ctx
	return f.result, f.err
}

func (f *fakeProcessor) Tools() []tools.ToolSpec {
	return []tools.ToolSpec{{Name: "sql_schema_tool", Description: "Lists tables."}}
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestProcessAnswered(t *testing.T) {
	proc := &fakeProcessor{result: agent.Result{
		Answer:     "users, orders",
		Status:     agent.StatusAnswered,
		Iterations: 2,
		RunID:      "run-1",
		Steps:      agent.Scratchpad{{Thought: "t", Action: "sql_schema_tool", Observation: "{}"}},
	}}
	h := NewHandler(proc)

	rec, body := get(t, h, "/api/agent?input="+url.QueryEscape("  List all tables "))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "List all tables", proc.input)
	assert.Equal(t, "users, orders", body["answer"])
	assert.Equal(t, "answered", body["status"])
	assert.EqualValues(t, 2, body["iterations"])
	assert.Equal(t, "run-1", body["run_id"])
	assert.NotContains(t, body, "steps")
	assert.NotContains(t, body, "error")

	_, body = get(t, h, "/api/agent?trace=true&input=x")
	steps, ok := body["steps"].([]any)
	require.True(t, ok)
	assert.Len(t, steps, 1)
}

func TestProcessRejectsEmptyInput(t *testing.T) {
	proc := &fakeProcessor{}
	rec, body := get(t, NewHandler(proc), "/api/agent?input=%20%20")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["error"], "input")
	assert.Empty(t, proc.input)
}

func TestProcessStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		result agent.Result
		err    error
		code   int
		status string
	}{
		{"no answer", agent.Result{Status: agent.StatusNoAnswer, Iterations: 8}, nil, http.StatusOK, "no_answer"},
		{"model failure", agent.Result{Status: agent.StatusFailed}, &agent.ModelError{Err: errors.New("401")}, http.StatusBadGateway, "failed"},
		{"cancelled", agent.Result{Status: agent.StatusCancelled}, fmt.Errorf("%w: %w", agent.ErrCancelled, context.DeadlineExceeded), http.StatusServiceUnavailable, "cancelled"},
		{"shutting down", agent.Result{Status: agent.StatusFailed}, runtime.ErrClosed, http.StatusServiceUnavailable, "failed"},
		{"unexpected", agent.Result{Status: agent.StatusFailed}, errors.New("boom"), http.StatusInternalServerError, "failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := get(t, NewHandler(&fakeProcessor{result: tc.result, err: tc.err}), "/api/agent?input=q")
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.status, body["status"])
			assert.Equal(t, "", body["answer"])
			if tc.err != nil {
				assert.Equal(t, http.StatusText(tc.code), body["error"], "internal detail stays in the log")
			}
		})
	}
}

func TestProcessAppliesRequestTimeout(t *testing.T) {
	proc := &fakeProcessor{result: agent.Result{Status: agent.StatusAnswered}}
	get(t, NewHandler(proc, WithRequestTimeout(time.Minute)), "/api/agent?input=q")
	deadline, ok := proc.ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)

	get(t, NewHandler(proc), "/api/agent?input=q")
	_, ok = proc.ctx.Deadline()
	assert.False(t, ok)
}

func TestTools(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeProcessor{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/agent/tools", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"sql_schema_tool","description":"Lists tables."}]`, rec.Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeProcessor{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/agent?input=q", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerWithAgent(t *testing.T) {
	echo := tools.Func(tools.ToolSpec{Name: "echo", Description: "Repeats its input."},
		func(_ context.Context, in string) (string, error) { return in, nil })
	reg, err := tools.NewRegistry([]tools.Tool{echo})
	require.NoError(t, err)
	a, err := agent.New(agent.Options{
		Model: models.NewDummyLLM("Action: echo\nAction Input: pong", "Final Answer:", "pong"),
		Tools: reg,
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(a))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/api/agent?input=ping")
	require.NoError(t, err)
	defer resp.Body.Close()
	var body processResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pong", body.Answer)
	assert.Equal(t, agent.StatusAnswered, body.Status)
	assert.NotEmpty(t, body.RunID)
}
