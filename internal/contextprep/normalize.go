package contextprep

import (
	"regexp"
	"strings"
)

var (
	pageNumberRe  = regexp.MustCompile(`\n?\s*\d+\s*/\s*\d+\s*\n`)
	blankRunsRe   = regexp.MustCompile(`\n{3,}`)
	hyphenBreakRe = regexp.MustCompile(`(\w)-\n(\w)`)
	trailingWSRe  = regexp.MustCompile(`[ \t]+\n`)
)

// Normalize cleans raw extracted text before chunking: unified newlines,
// page-number artifacts removed, hyphenated line breaks rejoined, blank
// runs collapsed.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	// Page footer artifacts like "3 / 30" on their own line.
	text = pageNumberRe.ReplaceAllString(text, "\n")

	// "compu-\nter" -> "computer"
	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")

	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = blankRunsRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
