// Package runtime wires a Config into a ready agent: the completion
// provider, the Postgres pool, the HTTP client for the remote tool server
// and the tool registry.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/react-agent/pkg/agent"
	"github.com/Protocol-Lattice/react-agent/pkg/config"
	"github.com/Protocol-Lattice/react-agent/pkg/models"
	"github.com/Protocol-Lattice/react-agent/pkg/tools"
	"github.com/Protocol-Lattice/react-agent/pkg/tools/mcp"
	"github.com/Protocol-Lattice/react-agent/pkg/tools/sqltool"
)

// ErrClosed is returned by Process after Close has been called.
var ErrClosed = errors.New("runtime: closed")

// ModelLoader constructs the language model used by the agent.
type ModelLoader func(ctx context.Context) (models.LLM, error)

// Option configures runtime construction.
type Option func(*options)

type options struct {
	model      ModelLoader
	querier    sqltool.Querier
	httpClient *http.Client
	extraTools []tools.Tool
	logger     *zap.Logger
}

// WithModel replaces the provider named in the configuration.
func WithModel(loader ModelLoader) Option {
	return func(o *options) {
		o.model = loader
	}
}

// WithQuerier supplies the database handle for the SQL tools instead of
// opening a pool from database.dsn. The runtime does not close it.
func WithQuerier(q sqltool.Querier) Option {
	return func(o *options) {
		o.querier = q
	}
}

// WithHTTPClient sets the client used to reach the remote tool server.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTools registers additional tools after the built-in ones.
func WithTools(ts ...tools.Tool) Option {
	return func(o *options) {
		for _, tool := range ts {
			if tool == nil {
				continue
			}
			o.extraTools = append(o.extraTools, tool)
		}
	}
}

// WithLogger attaches a logger that is passed down to every component.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Runtime owns the long-lived resources shared by all requests.
type Runtime struct {
	agent    *agent.Agent
	registry *tools.Registry
	model    models.LLM
	pool     *pgxpool.Pool
	runs     *runTracker
	logger   *zap.Logger
}

// New validates cfg and builds the runtime. Tools are registered in the
// order mcp_tool, sql_schema_tool, sql_execution_tool, mcp_execute_tool;
// the MCP pair is skipped when mcp.base_url is empty and the SQL pair when
// there is neither a DSN nor a querier.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("runtime requires a configuration")
	}
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rt := &Runtime{runs: newRunTracker(), logger: o.logger}

	querier := o.querier
	if querier == nil && cfg.Database.DSN != "" {
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		rt.pool = pool
		querier = pool
	}

	var list, execute tools.Tool
	if cfg.MCP.BaseURL != "" {
		client := o.httpClient
		if client == nil {
			client = &http.Client{Timeout: cfg.MCP.Timeout}
		}
		mcpOpts := []mcp.Option{mcp.WithHTTPClient(client), mcp.WithLogger(o.logger.Named("mcp"))}
		list = mcp.NewListTool(cfg.MCP, mcpOpts...)
		execute = mcp.NewExecuteTool(cfg.MCP, mcpOpts...)
	}

	var catalog []tools.Tool
	if list != nil {
		catalog = append(catalog, list)
	}
	if querier != nil {
		sqlOpts := []sqltool.Option{sqltool.WithLogger(o.logger.Named("sql"))}
		catalog = append(catalog, sqltool.NewSchemaTool(querier, sqlOpts...), sqltool.NewQueryTool(querier, sqlOpts...))
	}
	if execute != nil {
		catalog = append(catalog, execute)
	}
	catalog = append(catalog, o.extraTools...)
	if len(catalog) == 0 {
		return nil, errors.New("no tools configured: set database.dsn or mcp.base_url")
	}

	registry, err := tools.NewRegistry(catalog, tools.WithLogger(o.logger.Named("tools")))
	if err != nil {
		rt.closePool()
		return nil, fmt.Errorf("build tool registry: %w", err)
	}
	rt.registry = registry

	loader := o.model
	if loader == nil {
		loader = func(ctx context.Context) (models.LLM, error) {
			return models.NewLLMProvider(ctx, cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.MaxTokens)
		}
	}
	model, err := loader(ctx)
	if err != nil {
		rt.closePool()
		return nil, fmt.Errorf("load model: %w", err)
	}
	rt.model = model

	rt.agent, err = agent.New(agent.Options{
		Model:               model,
		Tools:               registry,
		MaxIterations:       cfg.Agent.MaxIterations,
		StopSequences:       cfg.Agent.StopSequences,
		AnswerStopSequences: cfg.Agent.AnswerStopSequences,
		FinalAnswerMarker:   cfg.Agent.FinalAnswerMarker,
		Logger:              o.logger.Named("agent"),
	})
	if err != nil {
		rt.closeModel()
		rt.closePool()
		return nil, fmt.Errorf("initialise agent: %w", err)
	}

	o.logger.Info("runtime ready",
		zap.Strings("tools", registry.Names()),
		zap.String("provider", cfg.LLM.Provider),
		zap.Bool("pool", rt.pool != nil),
	)
	return rt, nil
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(db.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}
	if db.MaxConns > 0 {
		poolCfg.MaxConns = db.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	return pool, nil
}

// Agent exposes the underlying agent.
func (rt *Runtime) Agent() *agent.Agent {
	return rt.agent
}

// Registry returns the tool registry shared by all requests.
func (rt *Runtime) Registry() *tools.Registry {
	return rt.registry
}

// Tools returns the tool catalog in registration order.
func (rt *Runtime) Tools() []tools.ToolSpec {
	return rt.registry.Specs()
}

// Process runs one request through the agent. It fails with ErrClosed once
// Close has started.
func (rt *Runtime) Process(ctx context.Context, input string) (agent.Result, error) {
	done, err := rt.runs.begin()
	if err != nil {
		return agent.Result{Status: agent.StatusFailed}, err
	}
	defer done()
	return rt.agent.Process(ctx, input)
}

// InFlight reports how many requests are being processed.
func (rt *Runtime) InFlight() int {
	return rt.runs.inFlight()
}

// Close stops accepting requests, waits for in-flight ones, then releases
// the database pool and the model client.
func (rt *Runtime) Close() error {
	if !rt.runs.close() {
		return nil
	}
	rt.runs.wait()
	rt.closePool()
	rt.logger.Info("runtime closed", zap.Uint64("requests", rt.runs.total()))
	return rt.closeModel()
}

func (rt *Runtime) closePool() {
	if rt.pool != nil {
		rt.pool.Close()
		rt.pool = nil
	}
}

func (rt *Runtime) closeModel() error {
	if c, ok := rt.model.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close model: %w", err)
		}
	}
	return nil
}
