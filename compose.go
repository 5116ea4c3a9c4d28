package transcriptpdf

import (
	"fmt"
	"strings"
	"time"
)

// SectionKind identifies a block of the composed document.
type SectionKind int

// Section kinds in document order.
const (
	SectionHeader SectionKind = iota
	SectionIntroduction
	SectionSummary
	SectionKeyPoints
	SectionFullContent
	SectionFooter
)

var sectionNames = [...]string{
	SectionHeader:       "header",
	SectionIntroduction: "introduction",
	SectionSummary:      "summary",
	SectionKeyPoints:    "key-points",
	SectionFullContent:  "full-content",
	SectionFooter:       "footer",
}

func (k SectionKind) String() string {
	if k < 0 || int(k) >= len(sectionNames) {
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
	return sectionNames[k]
}

// Localised headings and labels.
const (
	headingIntroduction = "📝 المقدمة"
	headingSummary      = "📊 الملخص"
	headingKeyPoints    = "⭐ أهم النقاط"
	headingFullContent  = "📄 المحتوى الكامل"
	labelSourceURL      = "رابط الفيديو"
	exportedByLine      = "تم التصدير بواسطة YouTube Transcript"
	footerLine          = "صُنع بإتقان © %d • YouTube Transcript"
)

// Section is one block of a [RenderedDocument].
type Section struct {
	Kind SectionKind

	// Heading is the localised section title. Header and Footer have none.
	Heading string

	// Content is the escaped markup of the section body.
	Content string

	// Text is the unescaped body, used by the plain-text export.
	Text string

	// AvoidBreakAcrossPages asks the layout to move the section to the next
	// page rather than split it, when it fits on one page.
	AvoidBreakAcrossPages bool
}

// RenderedDocument is a composed transcript ready to be laid out or
// serialized. It is built for a single export and not meant to be kept.
type RenderedDocument struct {
	Title      string
	SourceURL  string
	ExportedAt time.Time
	Sections   []Section
}

// Compose builds the document for doc stamped with the current time.
func Compose(doc *SourceDocument) (*RenderedDocument, error) {
	return ComposeAt(doc, time.Now())
}

// ComposeAt builds the sections of doc in their fixed order: Header,
// Introduction, Summary, Key Points, Full Content, Footer. Optional sections
// are only present when their field holds more than whitespace.
func ComposeAt(doc *SourceDocument, exportedAt time.Time) (*RenderedDocument, error) {
	if doc == nil {
		return nil, ErrMissingInput
	}
	src := doc.normalized()

	rd := &RenderedDocument{
		Title:      src.Title,
		SourceURL:  strings.TrimSpace(src.SourceURL),
		ExportedAt: exportedAt,
	}
	rd.Sections = append(rd.Sections, Section{
		Kind:    SectionHeader,
		Content: headerMarkup(rd.Title, rd.SourceURL, exportedAt),
		Text:    rd.Title,
	})

	optional := []struct {
		kind    SectionKind
		heading string
		text    string
		format  func(string) string
		avoid   bool
	}{
		{SectionIntroduction, headingIntroduction, src.Introduction, Sanitize, true},
		{SectionSummary, headingSummary, src.Summary, Sanitize, true},
		{SectionKeyPoints, headingKeyPoints, src.KeyPoints, FormatPoints, true},
		{SectionFullContent, headingFullContent, src.FullContent, Sanitize, false},
	}
	for _, o := range optional {
		if strings.TrimSpace(o.text) == "" {
			continue
		}
		rd.Sections = append(rd.Sections, Section{
			Kind:                  o.kind,
			Heading:               o.heading,
			Content:               o.format(o.text),
			Text:                  o.text,
			AvoidBreakAcrossPages: o.avoid,
		})
	}

	rd.Sections = append(rd.Sections, Section{
		Kind:    SectionFooter,
		Content: "<p>" + sanitizeInline(fmt.Sprintf(footerLine, exportedAt.Year())) + "</p>",
	})
	return rd, nil
}

// Section returns the first section of kind k.
func (rd *RenderedDocument) Section(k SectionKind) (Section, bool) {
	for _, s := range rd.Sections {
		if s.Kind == k {
			return s, true
		}
	}
	return Section{}, false
}

// Kinds lists the section kinds in document order.
func (rd *RenderedDocument) Kinds() []SectionKind {
	kinds := make([]SectionKind, len(rd.Sections))
	for i, s := range rd.Sections {
		kinds[i] = s.Kind
	}
	return kinds
}

func headerMarkup(title, sourceURL string, exportedAt time.Time) string {
	var b strings.Builder
	b.WriteString(`<h1 class="title">`)
	b.WriteString(sanitizeInline(title))
	b.WriteString(`</h1>`)
	if sourceURL != "" {
		b.WriteString(`<div class="source"><p class="source-label"><strong>`)
		b.WriteString(labelSourceURL)
		b.WriteString(`:</strong></p><p class="source-url">`)
		b.WriteString(sanitizeInline(sourceURL))
		b.WriteString(`</p></div>`)
	}
	b.WriteString(`<p class="exported">`)
	b.WriteString(exportedByLine)
	b.WriteString(" • ")
	b.WriteString(arabicDate(exportedAt))
	b.WriteString(`</p>`)
	return b.String()
}

// arabicDigits maps ASCII digits to Arabic-Indic digits.
var arabicDigits = strings.NewReplacer(
	"0", "٠", "1", "١", "2", "٢", "3", "٣", "4", "٤",
	"5", "٥", "6", "٦", "7", "٧", "8", "٨", "9", "٩",
)

// arabicDate formats t as day/month/year with Arabic-Indic digits, the way
// Egyptian Arabic locales print short dates.
func arabicDate(t time.Time) string {
	return arabicDigits.Replace(fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year()))
}
