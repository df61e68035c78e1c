// Package modelout normalizes free-form generative-model output into
// validated, bounded, schema-conformant structures. Its public contract
// is total: for any input (empty, garbage, fenced, truncated JSON) it
// returns a well-formed result and never panics or propagates an error.
//
// Failures from the stages beneath it (retrieval, the model call itself)
// are not owned here and propagate normally.
package modelout

import "strings"

// StripFences removes a single enclosing markdown code fence from model
// output: when the text begins with a triple-backtick marker the first
// line is dropped, and a trailing triple-backtick marker is removed if
// present. Unfenced input passes through unchanged. Idempotent.
func StripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "```") {
		if _, rest, ok := strings.Cut(trimmed, "\n"); ok {
			trimmed = rest
		} else {
			trimmed = strings.TrimPrefix(trimmed, "```")
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}
