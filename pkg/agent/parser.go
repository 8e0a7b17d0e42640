package agent

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultFinalAnswerMarker ends the loop when it appears in a completion.
const DefaultFinalAnswerMarker = "Final Answer:"

// Both labels must start a line, so "action:" inside a thought is not taken
// for the action itself.
var actionPattern = regexp.MustCompile(`(?ims)^[ \t]*Action\s*\d*\s*:[ \t]*(.*?)\s*^[ \t]*Action\s*\d*\s*Input\s*\d*\s*:\s*(.*)`)

// Response is a parsed completion. Exactly one of Final or Action applies.
type Response struct {
	Thought     string
	Action      string
	ActionInput string
	Final       bool
	Answer      string
}

// ParseError is returned when a completion names neither an action nor a
// final answer.
type ParseError struct {
	Output string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid format: %s", e.Reason)
}

// ParseResponse splits a completion into thought and either a final answer
// or an action with its input. The marker is matched case-insensitively. It
// wins over an action when it comes before the action or starts a line of its
// own; a marker in the middle of an action input is part of that input.
func ParseResponse(output, marker string) (Response, error) {
	if marker == "" {
		marker = DefaultFinalAnswerMarker
	}
	text := strings.TrimSpace(output)
	m := actionPattern.FindStringSubmatchIndex(text)

	if idx := finalAnswerIndex(text, marker, m); idx >= 0 {
		answer := text[idx+len(marker):]
		if q := indexFold(answer, "\nQuestion:"); q >= 0 {
			answer = answer[:q]
		}
		return Response{
			Thought: strings.TrimSpace(text[:idx]),
			Final:   true,
			Answer:  strings.TrimSpace(answer),
		}, nil
	}

	if m == nil {
		reason := `missing "Action:" after "Thought:"`
		if indexFold(text, "Action:") >= 0 {
			reason = `missing "Action Input:" after "Action:"`
		}
		return Response{}, &ParseError{Output: output, Reason: reason}
	}

	action := cleanAction(text[m[2]:m[3]])
	if action == "" {
		return Response{}, &ParseError{Output: output, Reason: `empty "Action:"`}
	}
	return Response{
		Thought:     strings.TrimSpace(text[:m[0]]),
		Action:      action,
		ActionInput: cleanInput(text[m[4]:m[5]]),
	}, nil
}

// finalAnswerIndex returns the offset of the first marker that ends the
// loop, or -1. m is the action match in text, if any.
func finalAnswerIndex(text, marker string, m []int) int {
	for from := 0; from < len(text); {
		idx := indexFold(text[from:], marker)
		if idx < 0 {
			return -1
		}
		idx += from
		if m == nil || idx < m[0] || atLineStart(text, idx) {
			return idx
		}
		from = idx + len(marker)
	}
	return -1
}

func atLineStart(s string, idx int) bool {
	line := s[:idx]
	if nl := strings.LastIndexByte(line, '\n'); nl >= 0 {
		line = line[nl+1:]
	}
	return strings.TrimLeft(line, " \t") == ""
}

func cleanAction(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`\"'[]")
	return strings.TrimSpace(s)
}

// cleanInput drops code fences and a stray "Observation:" the model may
// have started before the stop sequence cut it off.
func cleanInput(s string) string {
	if idx := indexFold(s, "\nObservation:"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.ContainsAny(s[:nl], "{[ ") {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && !strings.Contains(s[1:len(s)-1], `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}

// indexFold is strings.Index ignoring case. Byte offsets refer to s.
func indexFold(s, substr string) int {
	n := len(substr)
	for i := 0; i+n <= len(s); i++ {
		if strings.EqualFold(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}
