package transcriptpdf

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"
)

var testExportTime = time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC)

func TestComposeAt_Order(t *testing.T) {
	tests := []struct {
		name string
		doc  SourceDocument
		want []SectionKind
	}{
		{
			name: "title only",
			doc:  SourceDocument{Title: "T"},
			want: []SectionKind{SectionHeader, SectionFooter},
		},
		{
			name: "introduction only",
			doc:  SourceDocument{Title: "T", Introduction: "I"},
			want: []SectionKind{SectionHeader, SectionIntroduction, SectionFooter},
		},
		{
			name: "key points only",
			doc:  SourceDocument{Title: "T", KeyPoints: "1. K"},
			want: []SectionKind{SectionHeader, SectionKeyPoints, SectionFooter},
		},
		{
			name: "full content only",
			doc:  SourceDocument{Title: "T", FullContent: "F"},
			want: []SectionKind{SectionHeader, SectionFullContent, SectionFooter},
		},
		{
			name: "summary only",
			doc:  SourceDocument{Title: "T", Summary: "S"},
			want: []SectionKind{SectionHeader, SectionSummary, SectionFooter},
		},
		{
			name: "full",
			doc:  SourceDocument{Title: "T", Introduction: "I", Summary: "S", KeyPoints: "K", FullContent: "F"},
			want: []SectionKind{SectionHeader, SectionIntroduction, SectionSummary, SectionKeyPoints, SectionFullContent, SectionFooter},
		},
		{
			name: "whitespace fields skipped",
			doc:  SourceDocument{Title: "T", Introduction: "  \n\t", FullContent: "F"},
			want: []SectionKind{SectionHeader, SectionFullContent, SectionFooter},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rd, err := ComposeAt(&tt.doc, testExportTime)
			if err != nil {
				t.Fatalf("ComposeAt: %v", err)
			}
			if got := rd.Kinds(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposeAt_AvoidBreaks(t *testing.T) {
	doc := &SourceDocument{Title: "T", Introduction: "I", Summary: "S", KeyPoints: "K", FullContent: "F"}
	rd, err := ComposeAt(doc, testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	want := map[SectionKind]bool{
		SectionHeader:       false,
		SectionIntroduction: true,
		SectionSummary:      true,
		SectionKeyPoints:    true,
		SectionFullContent:  false,
		SectionFooter:       false,
	}
	for _, s := range rd.Sections {
		if s.AvoidBreakAcrossPages != want[s.Kind] {
			t.Errorf("%v: AvoidBreakAcrossPages = %v, want %v", s.Kind, s.AvoidBreakAcrossPages, want[s.Kind])
		}
	}
}

func TestComposeAt_Content(t *testing.T) {
	doc := &SourceDocument{
		Title:     "Test & <Video>",
		SourceURL: " https://youtu.be/abc?a=1&b=2 ",
		KeyPoints: "1. First\n2. Second",
	}
	rd, err := ComposeAt(doc, testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	if rd.SourceURL != "https://youtu.be/abc?a=1&b=2" {
		t.Errorf("SourceURL = %q", rd.SourceURL)
	}

	header, _ := rd.Section(SectionHeader)
	for _, want := range []string{
		`<h1 class="title">Test &amp; &lt;Video&gt;</h1>`,
		labelSourceURL,
		"https://youtu.be/abc?a=1&amp;b=2",
		"٥/٣/٢٠٢٤",
	} {
		if !strings.Contains(header.Content, want) {
			t.Errorf("header missing %q in %q", want, header.Content)
		}
	}

	kp, ok := rd.Section(SectionKeyPoints)
	if !ok {
		t.Fatal("no key points section")
	}
	if kp.Heading != headingKeyPoints {
		t.Errorf("Heading = %q", kp.Heading)
	}
	if !strings.Contains(kp.Content, `<strong class="marker">2.</strong>`) {
		t.Errorf("key points not formatted: %q", kp.Content)
	}
	if kp.Text != doc.KeyPoints {
		t.Errorf("Text = %q, want raw field", kp.Text)
	}

	footer, _ := rd.Section(SectionFooter)
	if !strings.Contains(footer.Content, "2024") {
		t.Errorf("footer missing year: %q", footer.Content)
	}
}

func TestComposeAt_NoSourceURL(t *testing.T) {
	rd, err := ComposeAt(&SourceDocument{Title: "T"}, testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	header, _ := rd.Section(SectionHeader)
	if strings.Contains(header.Content, labelSourceURL) {
		t.Errorf("header has source block without a URL: %q", header.Content)
	}
}

func TestComposeAt_DefaultTitle(t *testing.T) {
	rd, err := ComposeAt(&SourceDocument{}, testExportTime)
	if err != nil {
		t.Fatal(err)
	}
	if rd.Title != DefaultTitle {
		t.Errorf("Title = %q, want default", rd.Title)
	}
}

func TestComposeAt_Nil(t *testing.T) {
	if _, err := ComposeAt(nil, testExportTime); !errors.Is(err, ErrMissingInput) {
		t.Errorf("error = %v, want ErrMissingInput", err)
	}
}

func TestSectionKindString(t *testing.T) {
	if got := SectionKeyPoints.String(); got != "key-points" {
		t.Errorf("String = %q", got)
	}
	if got := SectionKind(42).String(); got != "SectionKind(42)" {
		t.Errorf("String = %q", got)
	}
}
