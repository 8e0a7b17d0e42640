package main

import (
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Protocol-Lattice/react-agent/pkg/agent"
)

func newAskCmd(c *cli) *cobra.Command {
	var (
		trace  bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := c.runtime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			res, err := rt.Process(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if !trace {
					res.Steps = nil
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			if trace {
				for i, step := range res.Steps {
					fmt.Fprintf(out, "--- step %d\n", i+1)
					if step.Thought != "" {
						fmt.Fprintf(out, "Thought: %s\n", step.Thought)
					}
					if step.Action != "" {
						fmt.Fprintf(out, "Action: %s\nAction Input: %s\n", step.Action, step.ActionInput)
					}
					fmt.Fprintf(out, "Observation: %s\n", step.Observation)
				}
				fmt.Fprintln(out, "---")
			}
			if res.Status == agent.StatusNoAnswer {
				fmt.Fprintf(out, "No answer after %d iterations.\n", res.Iterations)
				return nil
			}
			fmt.Fprintln(out, res.Answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print every reasoning step")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
