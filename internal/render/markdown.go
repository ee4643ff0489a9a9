// internal/render/markdown.go

// Package render normalizes backend answers for terminal display. Answers
// are markdown but may embed raw HTML fragments; those are converted to
// markdown so the text stays readable in a terminal.
package render

import (
	"log/slog"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern detects opening, closing, and self-closing HTML tags.
// Plain markdown containing "<" (comparisons, generics) must not trigger a
// conversion pass.
var htmlTagPattern = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9-]*(\s[^<>]*)?/?>`)

// NormalizeAnswer returns the answer with embedded HTML converted to
// markdown. Text without HTML tags is returned unchanged, and a conversion
// failure falls back to the original text.
func NormalizeAnswer(answer string) string {
	if !strings.Contains(answer, "<") || !htmlTagPattern.MatchString(answer) {
		return answer
	}
	converted, err := htmltomarkdown.ConvertString(answer)
	if err != nil {
		slog.Debug("html conversion failed", "error", err)
		return answer
	}
	return strings.TrimSpace(converted)
}
