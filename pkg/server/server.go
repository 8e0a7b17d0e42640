// Package server exposes the agent over HTTP.
//
//	GET /api/agent?input=...   run one request
//	GET /api/agent/tools       list the tool catalog
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/agent"
	"github.com/Protocol-Lattice/react-agent/pkg/runtime"
	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

// Processor answers requests; *runtime.Runtime implements it.
type Processor interface {
	Process(ctx context.Context, input string) (agent.Result, error)
	Tools() []tools.ToolSpec
}

// Option customises the handler.
type Option func(*handler)

// WithLogger attaches a logger for request outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(h *handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithRequestTimeout bounds each request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *handler) {
		h.timeout = d
	}
}

type handler struct {
	proc    Processor
	timeout time.Duration
	logger  *zap.Logger
	mux     *http.ServeMux
}

// NewHandler returns the HTTP routes for p.
func NewHandler(p Processor, opts ...Option) http.Handler {
	h := &handler{proc: p, logger: zap.NewNop(), mux: http.NewServeMux()}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.mux.HandleFunc("GET /api/agent", h.handleProcess)
	h.mux.HandleFunc("GET /api/agent/tools", h.handleTools)
	return h.mux
}

type processResponse struct {
	Answer     string       `json:"answer"`
	Status     agent.Status `json:"status"`
	Iterations int          `json:"iterations"`
	RunID      string       `json:"run_id,omitempty"`
	Steps      []agent.Step `json:"steps,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func (h *handler) handleProcess(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("input"))
	if input == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'input' is required"})
		return
	}
	trace, _ := strconv.ParseBool(r.URL.Query().Get("trace"))

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	res, err := h.proc.Process(ctx, input)
	resp := processResponse{
		Answer:     res.Answer,
		Status:     res.Status,
		Iterations: res.Iterations,
		RunID:      res.RunID,
	}
	if trace {
		resp.Steps = res.Steps
	}

	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		resp.Error = http.StatusText(status)
		h.logger.Warn("request failed",
			zap.String("run_id", res.RunID),
			zap.Int("http_status", status),
			zap.Error(err),
		)
	}
	writeJSON(w, status, resp)
}

func (h *handler) handleTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.proc.Tools())
}

func statusFor(err error) int {
	var merr *agent.ModelError
	switch {
	case errors.Is(err, agent.ErrCancelled), errors.Is(err, runtime.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.As(err, &merr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
