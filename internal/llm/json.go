package llm

import (
	"strings"
)

// ExtractJSON pulls the JSON object out of a model reply that may be wrapped in
// markdown code fences or surrounded by commentary. It returns the substring
// from the first '{' to the matching final '}', or the trimmed input when no
// braces are found (letting the caller's decoder produce the error).
func ExtractJSON(content string) string {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		return trimmed[start : end+1]
	}
	return trimmed
}
