package mcp

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no comments", `{"a": 1}`, `{"a": 1}`},
		{"line comment", "{\n  \"a\": 1, // the id\n  \"b\": 2\n}", "{\n  \"a\": 1, \n  \"b\": 2\n}"},
		{"line comment keeps CRLF", "{\"a\": 1 // x\r\n}", "{\"a\": 1 \r\n}"},
		{"line comment at end", `{"a": 1} // done`, `{"a": 1} `},
		{"block comment", `{"a": /* one */ 1}`, `{"a":  1}`},
		{"multiline block", "{\"a\": 1, /* first\n second */ \"b\": 2}", `{"a": 1,  "b": 2}`},
		{"unterminated block", `{"a": 1 /* never closed`, `{"a": 1 `},
		{"url inside string", `{"u": "https://example.com/x"}`, `{"u": "https://example.com/x"}`},
		{"block marker inside string", `{"g": "src/*.go"}`, `{"g": "src/*.go"}`},
		{"escaped quote in string", `{"q": "say \"//hi\""} // tail`, `{"q": "say \"//hi\""} `},
		{"slash division outside string", `a / b`, `a / b`},
		{"block then slash", `a/**//b`, `a/b`},
		{"empty", ``, ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripComments(tc.in))
		})
	}
}

func TestStripCommentsIsIdempotent(t *testing.T) {
	alphabet := []string{"/", "*", "\"", "\\", "\n", "\r", "a", " ", "{", "}", ":", "//", "/*", "*/"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 5000; i++ {
		var sb strings.Builder
		n := rng.Intn(24)
		for j := 0; j < n; j++ {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		in := sb.String()
		once := StripComments(in)
		twice := StripComments(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestStripCommentsLeavesCommentFreeInputUntouched(t *testing.T) {
	inputs := []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"DeleteUser","arguments":{"id":"42"}}}`,
		"plain text with a / slash and * star",
		`"unterminated string // with slashes`,
	}
	for _, in := range inputs {
		assert.Equal(t, in, StripComments(in))
	}
}
