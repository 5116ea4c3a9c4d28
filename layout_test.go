package transcriptpdf

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	rd, err := ComposeAt(fullDocument(), testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	markup, err := rd.HTML(nil)
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	for _, want := range []string{
		`<html lang="ar" dir="rtl">`,
		"width: 794px;",
		"padding: 15.00mm 15.00mm 15.00mm 15.00mm;",
		`<title>Test &amp; &lt;Video&gt;</title>`,
		`data-section="introduction" data-avoid-break="true"`,
		`data-section="full-content" data-avoid-break="false"`,
		`<h2>` + headingSummary + `</h2>`,
		`<strong class="marker">1.</strong> One`,
	} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q", want)
		}
	}
	// Sanitized content must not be escaped a second time.
	if strings.Contains(markup, "&amp;lt;") {
		t.Error("content escaped twice")
	}
}

func TestHTML_SectionOrder(t *testing.T) {
	rd, err := ComposeAt(fullDocument(), testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	markup, err := rd.HTML(nil)
	if err != nil {
		t.Fatal(err)
	}
	last := -1
	for _, k := range rd.Kinds() {
		i := strings.Index(markup, `data-section="`+k.String()+`"`)
		if i <= last {
			t.Fatalf("section %v out of order", k)
		}
		last = i
	}
}

func TestHTML_Landscape(t *testing.T) {
	rd, err := ComposeAt(&SourceDocument{Title: "T"}, testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	markup, err := rd.HTML(&PageConfig{Orientation: Landscape})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(markup, "width: 1123px;") {
		t.Error("landscape layout width not applied")
	}
}
