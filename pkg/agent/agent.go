// Package agent runs the reason-act-observe loop: it prompts a language
// model with the tool catalog and the steps taken so far, dispatches the
// chosen tool, and finally asks the model for a short answer grounded in the
// last result.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/models"
	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

const defaultMaxIterations = 8

var (
	defaultStopSequences       = []string{"Observation:", "\nQuestion:"}
	defaultAnswerStopSequences = []string{"Final Answer:", "Question:"}
)

// ToolSet is the part of the tool registry the loop needs.
type ToolSet interface {
	Specs() []tools.ToolSpec
	Dispatch(ctx context.Context, name, input string) string
}

// Agent answers requests. It holds no per-request state and may serve
// concurrent calls to Process.
type Agent struct {
	model         models.LLM
	tools         ToolSet
	synth         *Synthesizer
	maxIterations int
	stop          []string
	marker        string
	logger        *zap.Logger
}

// Options configure a new Agent.
type Options struct {
	Model models.LLM
	Tools ToolSet
	// MaxIterations bounds the number of reasoning calls (default 8).
	MaxIterations int
	// StopSequences bound each reasoning completion (default "Observation:"
	// and "\nQuestion:").
	StopSequences []string
	// AnswerStopSequences bound the answer completion.
	AnswerStopSequences []string
	FinalAnswerMarker   string
	// AnswerTemplate overrides DefaultAnswerTemplate.
	AnswerTemplate string
	Logger         *zap.Logger
}

// New creates an Agent with the provided options.
func New(opts Options) (*Agent, error) {
	if opts.Model == nil {
		return nil, errors.New("agent requires a language model")
	}
	if opts.Tools == nil {
		return nil, errors.New("agent requires a tool set")
	}

	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	stop := opts.StopSequences
	if len(stop) == 0 {
		stop = defaultStopSequences
	}
	answerStop := opts.AnswerStopSequences
	if len(answerStop) == 0 {
		answerStop = defaultAnswerStopSequences
	}
	marker := strings.TrimSpace(opts.FinalAnswerMarker)
	if marker == "" {
		marker = DefaultFinalAnswerMarker
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Agent{
		model:         opts.Model,
		tools:         opts.Tools,
		synth:         NewSynthesizer(opts.Model, answerStop, opts.AnswerTemplate),
		maxIterations: maxIter,
		stop:          append([]string(nil), stop...),
		marker:        marker,
		logger:        logger,
	}, nil
}

// Tools lists the catalog presented to the model, in registration order.
func (a *Agent) Tools() []tools.ToolSpec {
	return a.tools.Specs()
}

// Process answers input. The returned error is nil for StatusAnswered and
// StatusNoAnswer, wraps ErrCancelled for StatusCancelled and is a
// *ModelError for StatusFailed. Tool failures never surface here; they are
// fed back to the model as observations.
func (a *Agent) Process(ctx context.Context, input string) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	logger := a.logger.With(zap.String("run_id", res.RunID))
	start := time.Now()

	finish := func(status Status, err error) (Result, error) {
		res.Status = status
		fields := []zap.Field{
			zap.String("status", string(status)),
			zap.Int("iterations", res.Iterations),
			zap.Duration("duration", time.Since(start)),
		}
		switch status {
		case StatusFailed:
			logger.Error("request failed", append(fields, zap.Error(err))...)
		default:
			logger.Info("request finished", fields...)
		}
		return res, err
	}
	cancelled := func() (Result, error) {
		return finish(StatusCancelled, fmt.Errorf("%w: %w", ErrCancelled, context.Cause(ctx)))
	}

	specs := a.tools.Specs()
	for res.Iterations < a.maxIterations {
		if ctx.Err() != nil {
			return cancelled()
		}
		res.Iterations++

		out, err := a.model.Generate(ctx, renderPrompt(specs, a.marker, input, res.Steps), a.stop)
		if err != nil {
			if ctx.Err() != nil {
				return cancelled()
			}
			return finish(StatusFailed, &ModelError{Err: err})
		}

		resp, err := ParseResponse(out, a.marker)
		if err != nil {
			logger.Debug("unparsable completion", zap.Int("iteration", res.Iterations), zap.Error(err))
			res.Steps = append(res.Steps, Step{
				Thought:     strings.TrimSpace(out),
				Observation: "Parse error: " + err.Error(),
			})
			continue
		}

		if resp.Final {
			toolResult := resp.Answer
			if toolResult == "" {
				toolResult = res.Steps.LastObservation()
			}
			answer, err := a.synth.Synthesize(ctx, toolResult, input)
			if err != nil {
				if ctx.Err() != nil {
					return cancelled()
				}
				return finish(StatusFailed, &ModelError{Err: err})
			}
			res.Answer = answer
			return finish(StatusAnswered, nil)
		}

		logger.Debug("dispatching tool",
			zap.Int("iteration", res.Iterations),
			zap.String("action", resp.Action),
			zap.Int("input_len", len(resp.ActionInput)),
		)
		obs := a.tools.Dispatch(ctx, resp.Action, resp.ActionInput)
		res.Steps = append(res.Steps, Step{
			Thought:     resp.Thought,
			Action:      resp.Action,
			ActionInput: resp.ActionInput,
			Observation: obs,
		})
		if ctx.Err() != nil {
			return cancelled()
		}
	}

	logger.Warn("iteration limit reached", zap.Int("max_iterations", a.maxIterations))
	return finish(StatusNoAnswer, nil)
}
