// Package summary converts the backend's freeform end-of-session summary into
// structured lines the front end can render.
package summary

import "strings"

type LineKind string

const (
	KindHeading   LineKind = "heading"
	KindEmphasis  LineKind = "emphasis"
	KindParagraph LineKind = "paragraph"
)

// Line is one rendered line of a session summary, markers stripped.
type Line struct {
	Kind LineKind `json:"kind"`
	Text string   `json:"text"`
}

const headingMarker = "### "

// Render splits a summary on line breaks and classifies each line: a
// "### " prefix renders as a heading, a line fully wrapped in ** renders as
// emphasis, anything else is a plain paragraph. There is no nested markup
// resolution. Empty input yields zero lines.
func Render(text string) []Line {
	if text == "" {
		return nil
	}

	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))

	for _, l := range raw {
		trimmed := strings.TrimSpace(l)
		switch {
		case strings.HasPrefix(trimmed, headingMarker):
			lines = append(lines, Line{
				Kind: KindHeading,
				Text: strings.TrimSpace(strings.TrimPrefix(trimmed, headingMarker)),
			})
		case isEmphasisLine(trimmed):
			lines = append(lines, Line{
				Kind: KindEmphasis,
				Text: strings.TrimSuffix(strings.TrimPrefix(trimmed, "**"), "**"),
			})
		default:
			lines = append(lines, Line{Kind: KindParagraph, Text: trimmed})
		}
	}

	return lines
}

// isEmphasisLine reports whether the entire line is of the form **...**.
func isEmphasisLine(s string) bool {
	return len(s) > 4 && strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**")
}
