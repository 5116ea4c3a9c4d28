package transcriptpdf

import (
	"fmt"
	"html/template"
	"strings"
)

// documentTemplate lays the sections out in a single fixed-width container.
// Sections carry data-section and data-avoid-break so the rasterizer can
// measure them and resolve page breaks before taking the screenshot.
var documentTemplate = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
html, body { margin: 0; padding: 0; background: #ffffff; }
#document {
  box-sizing: border-box;
  width: {{.Width}}px;
  padding: {{.Padding}};
  background: #ffffff;
  color: #000000;
  direction: rtl;
  font-family: 'Tajawal', 'Arial', sans-serif;
  line-height: 1.9;
}
.section { margin: 0 0 25px 0; }
.section[data-avoid-break="true"] { page-break-inside: avoid; break-inside: avoid; }
.section h2 {
  font-size: 20px; font-weight: bold; color: #FF0000;
  border-bottom: 2px solid #FF0000; padding-bottom: 8px; margin: 0 0 15px 0;
}
.section .content { font-size: 14px; text-align: justify; line-height: 2; padding: 10px; }
.section .content p { margin: 10px 0; }
.section-header { text-align: center; margin-bottom: 30px; padding-bottom: 20px; border-bottom: 3px solid #FF0000; }
.section-header h1 { font-size: 26px; font-weight: bold; color: #FF0000; margin: 0 0 15px 0; }
.section-header .source-label { font-size: 11px; color: #666666; margin: 5px 0; }
.section-header .source-url { font-size: 10px; color: #0066cc; word-break: break-all; margin: 0; }
.section-header .exported { font-size: 10px; color: #999999; margin-top: 15px; }
.section-introduction .content { background: #f9f9f9; border-right: 4px solid #FF0000; }
.section-summary .content { background: #fff8f0; border-right: 4px solid #FFA500; }
.section-key-points .content { background: #f0f8ff; border-right: 4px solid #0066cc; }
.section-full-content .content { background: #fafafa; font-size: 12px; line-height: 1.9; }
.section-footer { margin: 40px 0 0 0; padding-top: 20px; border-top: 2px solid #dddddd; text-align: center; font-size: 10px; color: #999999; }
.marker { color: #FF0000; font-size: 16px; }
</style>
</head>
<body>
<div id="document">
{{- range .Sections}}
<section class="section section-{{.Class}}" data-section="{{.Class}}" data-avoid-break="{{.AvoidBreak}}">
{{- if .Heading}}<h2>{{.Heading}}</h2>{{end}}
{{- if .Boxed}}<div class="content">{{.Content}}</div>{{else}}{{.Content}}{{end -}}
</section>
{{- end}}
</div>
</body>
</html>
`))

type layoutView struct {
	Title    string
	Width    int
	Padding  template.CSS
	Sections []sectionView
}

type sectionView struct {
	Class      string
	Heading    string
	Content    template.HTML
	Boxed      bool
	AvoidBreak bool
}

// HTML renders the document as a standalone page whose content container is
// exactly one page wide, in CSS pixels. pg may be nil for the defaults.
func (rd *RenderedDocument) HTML(pg *PageConfig) (string, error) {
	r := pg.resolved()
	view := layoutView{
		Title:   rd.Title,
		Width:   r.viewportWidth(),
		Padding: template.CSS(cssBox(r.Padding)),
	}
	// Section content has already been escaped by the sanitizer.
	for _, s := range rd.Sections {
		view.Sections = append(view.Sections, sectionView{
			Class:      s.Kind.String(),
			Content:    template.HTML(s.Content),
			Heading:    s.Heading,
			Boxed:      s.Kind != SectionHeader && s.Kind != SectionFooter,
			AvoidBreak: s.AvoidBreakAcrossPages,
		})
	}

	var b strings.Builder
	if err := documentTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("%w: executing layout template: %w", ErrRenderFailed, err)
	}
	return b.String(), nil
}

// cssBox formats m as a CSS padding shorthand in millimetres.
func cssBox(m Margin) string {
	return fmt.Sprintf("%.2fmm %.2fmm %.2fmm %.2fmm", m.Top, m.Right, m.Bottom, m.Left)
}
