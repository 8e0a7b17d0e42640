package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Protocol-Lattice/react-agent/pkg/models"
	"github.com/Protocol-Lattice/react-agent/pkg/runtime"
)

func newToolsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tools the agent can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Listing needs no model, so skip provider credentials.
			rt, err := c.runtime(cmd.Context(), runtime.WithModel(func(context.Context) (models.LLM, error) {
				return models.NewDummyLLM(), nil
			}))
			if err != nil {
				return err
			}
			defer rt.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, spec := range rt.Tools() {
				fmt.Fprintf(tw, "%s\t%s\n", spec.Name, oneLine(spec.Description))
			}
			return tw.Flush()
		},
	}
}

func newConfigCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(c.cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
