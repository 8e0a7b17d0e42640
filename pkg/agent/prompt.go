package agent

import (
	"strings"

	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

const promptHeader = `Answer the following questions as best you can. You have access to the following tools:

`

const promptFormat = `

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%TOOL_NAMES%]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
%MARKER% the final answer to the original input question

Begin!

Question: `

// renderPrompt builds the reasoning prompt: catalog, format instructions,
// the request, then the scratchpad.
func renderPrompt(specs []tools.ToolSpec, marker, input string, pad Scratchpad) string {
	names := make([]string, 0, len(specs))
	var catalog strings.Builder
	for i, spec := range specs {
		if i > 0 {
			catalog.WriteString("\n")
		}
		catalog.WriteString(spec.Name)
		catalog.WriteString(": ")
		catalog.WriteString(oneLine(spec.Description))
		names = append(names, spec.Name)
	}

	format := strings.NewReplacer(
		"%TOOL_NAMES%", strings.Join(names, ", "),
		"%MARKER%", marker,
	).Replace(promptFormat)

	var sb strings.Builder
	sb.WriteString(promptHeader)
	sb.WriteString(catalog.String())
	sb.WriteString(format)
	sb.WriteString(strings.TrimSpace(input))
	sb.WriteString("\nThought:")
	sb.WriteString(pad.Render())
	return sb.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
