package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Protocol-Lattice/react-agent/pkg/tools"
)

func TestScratchpadRender(t *testing.T) {
	pad := Scratchpad{
		{Thought: "I need the schema.", Action: "sql_schema_tool", ActionInput: "", Observation: `{"users":["id"]}`},
		{Thought: "gibberish", Observation: "Parse error: invalid format"},
	}
	want := " I need the schema.\nAction: sql_schema_tool\nAction Input: \nObservation: {\"users\":[\"id\"]}\nThought:" +
		" gibberish\nObservation: Parse error: invalid format\nThought:"
	assert.Equal(t, want, pad.Render())
	assert.Equal(t, "Parse error: invalid format", pad.LastObservation())
	assert.Empty(t, Scratchpad(nil).Render())
	assert.Empty(t, Scratchpad(nil).LastObservation())
}

func TestRenderPrompt(t *testing.T) {
	specs := []tools.ToolSpec{
		{Name: "mcp_tool", Description: "Lists remote tools."},
		{Name: "sql_execution_tool", Description: "Use for SELECT queries.\nOnly the SQL query."},
	}
	pad := Scratchpad{{Thought: "look", Action: "mcp_tool", Observation: "[]"}}

	prompt := renderPrompt(specs, "Final Answer:", "  How many users?  ", pad)

	assert.Contains(t, prompt, "mcp_tool: Lists remote tools.\nsql_execution_tool: Use for SELECT queries. Only the SQL query.")
	assert.Contains(t, prompt, "should be one of [mcp_tool, sql_execution_tool]")
	assert.Contains(t, prompt, "\nFinal Answer: the final answer to the original input question")
	assert.Contains(t, prompt, "Question: How many users?\nThought: look\nAction: mcp_tool")
	assert.True(t, strings.HasSuffix(prompt, "Observation: []\nThought:"))
}

func TestSynthesizerPrompt(t *testing.T) {
	s := NewSynthesizer(nil, nil, "")
	got := s.Prompt(`{"users":["id"]} and {request}`, "List all tables")
	assert.Equal(t, "Do not generate code.\n"+
		"Keep the answer as short as possible. Always quote the context in your answer.\n"+
		"Context: {\"users\":[\"id\"]} and {request}\n"+
		"Question: List all tables\n"+
		"Final Answer:", got)

	custom := NewSynthesizer(nil, nil, "{request} => {toolResult}")
	assert.Equal(t, "q => r", custom.Prompt("r", "q"))
}
