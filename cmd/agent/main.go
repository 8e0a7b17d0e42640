// Command agent answers natural-language questions about a Postgres
// database and a remote tool server.
//
//	agent ask "How many users signed up this week?"
//	agent serve --config agent.yaml
//	agent tools
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Protocol-Lattice/react-agent/pkg/config"
	"github.com/Protocol-Lattice/react-agent/pkg/runtime"
)

type cli struct {
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "agent",
		Short:         "Tool-using question answering over SQL and a remote tool server",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			c.cfg = cfg
			return c.initLogger()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "agent.yaml", "path to the YAML configuration file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newAskCmd(c),
		newServeCmd(c),
		newToolsCmd(c),
		newConfigCmd(c),
	)
	return root
}

func (c *cli) initLogger() error {
	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(c.cfg.Log.Level)
	if err != nil {
		return err
	}
	if c.verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.logger = logger
	return nil
}

func (c *cli) runtime(ctx context.Context, opts ...runtime.Option) (*runtime.Runtime, error) {
	opts = append([]runtime.Option{runtime.WithLogger(c.logger)}, opts...)
	return runtime.New(ctx, c.cfg, opts...)
}
