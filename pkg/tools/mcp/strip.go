package mcp

import "strings"

// StripComments removes // line comments and /* */ block comments that
// models sometimes leave inside JSON. Text inside double-quoted string
// literals is left alone, so URLs and paths in argument values survive.
// A line comment ends before the line terminator, which is kept; an
// unterminated block comment runs to the end of the input.
//
// The output never contains a comment outside a string literal, which makes
// the function idempotent. Input without comments is returned unchanged.
func StripComments(input string) string {
	if !strings.Contains(input, "//") && !strings.Contains(input, "/*") {
		return input
	}

	var out strings.Builder
	out.Grow(len(input))

	inString := false
	escaped := false
	for i := 0; i < len(input); i++ {
		c := input[i]

		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			out.WriteByte(c)
		case c == '/' && i+1 < len(input) && input[i+1] == '/':
			i += 2
			for i < len(input) && input[i] != '\n' && input[i] != '\r' {
				i++
			}
			i-- // keep the line terminator
		case c == '/' && i+1 < len(input) && input[i+1] == '*':
			end := strings.Index(input[i+2:], "*/")
			if end < 0 {
				i = len(input)
				continue
			}
			i += 2 + end + 1
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
