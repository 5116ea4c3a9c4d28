package transcriptpdf

import "strings"

// textDivider separates blocks of the plain-text export.
var textDivider = strings.Repeat("═", 39)

// PlainText serializes the document as UTF-8 text: the title, the source
// link, then every present section under its heading, each block followed by
// a divider. Values are written verbatim; there is no markup to escape.
func (rd *RenderedDocument) PlainText() string {
	var b strings.Builder
	block := func(s string) {
		b.WriteString(s)
		b.WriteString("\n\n")
		b.WriteString(textDivider)
		b.WriteString("\n\n")
	}

	block(rd.Title)
	if rd.SourceURL != "" {
		block(labelSourceURL + ":\n" + rd.SourceURL)
	}
	for _, s := range rd.Sections {
		if s.Kind == SectionHeader || s.Kind == SectionFooter {
			continue
		}
		block(s.Heading + ":\n" + s.Text)
	}
	return b.String()
}
