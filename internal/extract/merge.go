package extract

import (
	"regexp"
	"strings"
)

var (
	// threeOrMoreBlank matches runs of four or more newlines, i.e. three
	// or more blank lines between content.
	threeOrMoreBlank = regexp.MustCompile(`\n{4,}`)

	// trailingSpace matches whitespace padding at line ends, a frequent
	// artifact of OCR output.
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)

	// fourOrMoreNewlines bounds the merged output's vertical whitespace.
	fourOrMoreNewlines = regexp.MustCompile(`\n{4,}`)
)

// NormalizeText canonicalizes one text block: line endings become LF,
// runs of three or more blank lines collapse to exactly one blank line,
// line-trailing whitespace is dropped and the whole block is trimmed.
// Internal single and double spacing is left untouched; indentation and
// deliberate spacing are content, not noise.
func NormalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = threeOrMoreBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// MergeCombined builds the final combined text: the selectable text (when
// non-empty), a blank-line separator, then every successful non-empty OCR
// text in discovery order joined by blank lines. Runs of four or more
// newlines collapse to exactly three before the final trim, so the
// result never contains four consecutive newlines.
func MergeCombined(selectable string, ocrTexts []string) string {
	parts := make([]string, 0, len(ocrTexts)+1)
	if selectable != "" {
		parts = append(parts, selectable)
	}
	for _, t := range ocrTexts {
		if strings.TrimSpace(t) != "" {
			parts = append(parts, t)
		}
	}

	combined := strings.Join(parts, "\n\n")
	combined = fourOrMoreNewlines.ReplaceAllString(combined, "\n\n\n")
	return strings.TrimSpace(combined)
}
