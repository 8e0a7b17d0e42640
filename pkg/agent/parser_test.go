package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponseAction(t *testing.T) {
	cases := []struct {
		name   string
		output string
		action string
		input  string
		think  string
	}{
		{
			name:   "plain",
			output: " I need the schema.\nAction: sql_schema_tool\nAction Input: none",
			action: "sql_schema_tool",
			input:  "none",
			think:  "I need the schema.",
		},
		{
			name:   "quoted action and trailing observation",
			output: "Thought: count users\nAction: `sql_execution_tool`\nAction Input: SELECT count(*) FROM users\nObservation: 3",
			action: "sql_execution_tool",
			input:  "SELECT count(*) FROM users",
			think:  "Thought: count users",
		},
		{
			name:   "fenced json input",
			output: "Action: mcp_execute_tool\nAction Input: ```json\n{\"jsonrpc\":\"2.0\"}\n```",
			action: "mcp_execute_tool",
			input:  `{"jsonrpc":"2.0"}`,
		},
		{
			name:   "quoted plain input",
			output: "Action: mcp_tool\nAction Input: \"list\"",
			action: "mcp_tool",
			input:  "list",
		},
		{
			name:   "marker inside action input",
			output: "Action: sql_execution_tool\nAction Input: SELECT id FROM notes WHERE body ILIKE '%Final Answer:%'",
			action: "sql_execution_tool",
			input:  "SELECT id FROM notes WHERE body ILIKE '%Final Answer:%'",
		},
		{
			name:   "action word inside thought",
			output: "I need to take an action: look at the schema\nAction: sql_schema_tool\nAction Input: none",
			action: "sql_schema_tool",
			input:  "none",
			think:  "I need to take an action: look at the schema",
		},
		{
			name:   "multi line input",
			output: "Action: sql_execution_tool\nAction Input: SELECT *\nFROM users\nWHERE id = 1",
			action: "sql_execution_tool",
			input:  "SELECT *\nFROM users\nWHERE id = 1",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := ParseResponse(tc.output, "")
			require.NoError(t, err)
			assert.False(t, resp.Final)
			assert.Equal(t, tc.action, resp.Action)
			assert.Equal(t, tc.input, resp.ActionInput)
			assert.Equal(t, tc.think, resp.Thought)
		})
	}
}

func TestParseResponseFinalAnswer(t *testing.T) {
	resp, err := ParseResponse("I now know the final answer\nfinal answer: 42 users", "Final Answer:")
	require.NoError(t, err)
	assert.True(t, resp.Final)
	assert.Equal(t, "42 users", resp.Answer)
	assert.Equal(t, "I now know the final answer", resp.Thought)

	resp, err = ParseResponse("Action: mcp_tool\nAction Input: x\nFinal Answer: done", "")
	require.NoError(t, err)
	assert.True(t, resp.Final, "marker wins over an action")
	assert.Equal(t, "done", resp.Answer)

	resp, err = ParseResponse("Final Answer: 3 users\n\nQuestion: what else?\nThought: more", "")
	require.NoError(t, err)
	assert.True(t, resp.Final)
	assert.Equal(t, "3 users", resp.Answer)

	resp, err = ParseResponse("Final Answer:", "")
	require.NoError(t, err)
	assert.True(t, resp.Final)
	assert.Empty(t, resp.Answer)

	resp, err = ParseResponse("ANSWER>> yes", "ANSWER>>")
	require.NoError(t, err)
	assert.Equal(t, "yes", resp.Answer)
}

func TestParseResponseErrors(t *testing.T) {
	_, err := ParseResponse("I am not sure what to do", "")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, `invalid format: missing "Action:" after "Thought:"`, err.Error())
	assert.Equal(t, "I am not sure what to do", perr.Output)

	_, err = ParseResponse("Action: sql_schema_tool", "")
	assert.EqualError(t, err, `invalid format: missing "Action Input:" after "Action:"`)

	_, err = ParseResponse("Action: ``\nAction Input: x", "")
	assert.EqualError(t, err, `invalid format: empty "Action:"`)
}

func TestIndexFoldKeepsByteOffsets(t *testing.T) {
	s := "Zażółć FINAL answer: ok"
	idx := indexFold(s, "final answer:")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "FINAL answer: ok", s[idx:])
	assert.Equal(t, -1, indexFold("short", "longer than s"))
}
