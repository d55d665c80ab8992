package groq

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ExtractJSON extracts a JSON object from a completion that may contain extra
// text or markdown code fences around it.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Remove markdown code block markers
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var jsonStr string
	if strings.HasPrefix(s, "{") {
		jsonStr = extractJSONObject(s)
	} else {
		startIdx := strings.Index(s, "{")
		if startIdx == -1 {
			return ""
		}
		jsonStr = extractJSONObject(s[startIdx:])
	}

	jsonStr = sanitizeJSON(jsonStr)

	if !isValidJSONObject(jsonStr) {
		return ""
	}
	return jsonStr
}

// isValidJSONObject checks if the string parses as a JSON object with at
// least one key.
func isValidJSONObject(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 5 { // Minimum valid JSON: {"a":1}
		return false
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return false
	}
	if !strings.Contains(s, `":`) {
		return false
	}
	var test map[string]interface{}
	if err := json.Unmarshal([]byte(s), &test); err != nil {
		return false
	}
	return len(test) > 0
}

// extractJSONObject extracts a complete brace-balanced JSON object from a
// string starting with {.
func extractJSONObject(s string) string {
	if !strings.HasPrefix(s, "{") {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i, char := range s {
		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		if char == '{' {
			depth++
		} else if char == '}' {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	// No matching brace found; let the JSON parser report the error.
	return s
}

var (
	trailingCommaRegex = regexp.MustCompile(`,\s*([}\]])`)
	unquotedKeyRegex   = regexp.MustCompile(`([{,]\s*)([a-zA-Z_][a-zA-Z0-9_]*)\s*:`)
)

// sanitizeJSON fixes common JSON errors from AI responses: trailing commas
// and unquoted object keys.
func sanitizeJSON(s string) string {
	s = trailingCommaRegex.ReplaceAllString(s, "$1")
	s = unquotedKeyRegex.ReplaceAllString(s, `$1"$2":`)
	return s
}
