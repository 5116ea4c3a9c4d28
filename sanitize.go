package transcriptpdf

import (
	"html"
	"regexp"
	"strings"
)

var (
	lineBreaks   = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	paragraphSep = regexp.MustCompile(`\n{2,}`)
	asciiMarker  = regexp.MustCompile(`^(?:[0-9]+[.\-)]|[•\-*])`)
	arabicMarker = regexp.MustCompile(`^[\x{0660}-\x{0669}]+[.\-)]`)
)

const (
	markerOpenTag  = `<strong class="marker">`
	markerCloseTag = `</strong>`
)

// Sanitize escapes raw so it can be embedded in HTML and converts its line
// structure to markup: single newlines become <br>, runs of two or more
// newlines separate <p> blocks. It returns "" for empty input.
func Sanitize(raw string) string {
	return renderBlocks(raw, nil)
}

// FormatPoints works like [Sanitize] and additionally wraps a list marker found
// at the start of any line (1. 2) 3- • - * or Arabic-Indic numerals followed by
// . - or )) in emphasis markup. Text outside the marker is left untouched.
func FormatPoints(raw string) string {
	return renderBlocks(raw, emphasizeMarker)
}

// renderBlocks escapes text and lays it out as paragraphs. Each escaped line
// is passed through decorate when it is non-nil.
func renderBlocks(raw string, decorate func(string) string) string {
	if raw == "" {
		return ""
	}
	text := html.EscapeString(lineBreaks.Replace(raw))

	var b strings.Builder
	b.Grow(len(text) + 16)
	for _, para := range paragraphSep.Split(text, -1) {
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		for i, line := range strings.Split(para, "\n") {
			if i > 0 {
				b.WriteString("<br>")
			}
			if decorate != nil {
				line = decorate(line)
			}
			b.WriteString(line)
		}
		b.WriteString("</p>")
	}
	return b.String()
}

// emphasizeMarker wraps the leading list marker of an escaped line. ASCII
// markers are tried before Arabic-Indic numerals.
func emphasizeMarker(line string) string {
	loc := asciiMarker.FindStringIndex(line)
	if loc == nil {
		loc = arabicMarker.FindStringIndex(line)
	}
	if loc == nil {
		return line
	}
	return markerOpenTag + line[:loc[1]] + markerCloseTag + line[loc[1]:]
}

// sanitizeInline escapes a single-block value such as a title or URL. Line
// breaks become <br> instead of paragraphs.
func sanitizeInline(raw string) string {
	text := html.EscapeString(lineBreaks.Replace(raw))
	return strings.ReplaceAll(text, "\n", "<br>")
}
