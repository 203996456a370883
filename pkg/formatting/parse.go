package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content holds no decodable JSON document.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*\\n?(.*?)\\n?```")

// ParseObject extracts a JSON object from model output. The text is tried in
// three shapes: the raw text, the body of a markdown code fence, and the
// first balanced {...} span embedded in surrounding prose. The first shape
// that holds a valid JSON object wins.
func ParseObject(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		if strings.HasPrefix(candidate, "{") && json.Valid([]byte(candidate)) {
			return json.RawMessage(candidate), nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON object in %s", ErrParseFailed, truncate(content, 200))
}

func candidates(content string) []string {
	out := []string{content}

	if m := fencePattern.FindStringSubmatch(content); len(m) >= 2 {
		out = append(out, strings.TrimSpace(m[1]))
	}

	if span, ok := objectSpan(content); ok {
		out = append(out, span)
	}

	return out
}

// objectSpan returns the first balanced {...} region, honoring string
// literals and escapes.
func objectSpan(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
