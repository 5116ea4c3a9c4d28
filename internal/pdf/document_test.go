package pdf

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// buildPDF writes objects 1..n (bodies without the "N 0 obj" wrapper) and a
// classic xref table. Object 1 must be the catalog.
func buildPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// buildXRefStreamPDF is buildPDF with a compressed cross-reference stream.
func buildXRefStreamPDF(objects ...string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.5\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	self := len(objects) + 1
	xrefOff := buf.Len()
	var rows bytes.Buffer
	rows.Write([]byte{0, 0, 0, 0xff})
	for _, off := range append(offsets, xrefOff) {
		rows.Write([]byte{1, byte(off >> 8), byte(off), 0})
	}
	var z bytes.Buffer
	zw := zlib.NewWriter(&z)
	zw.Write(rows.Bytes())
	zw.Close()

	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 2 1] /Root 1 0 R /Filter /FlateDecode /Length %d >>\nstream\n",
		self, self+1, z.Len())
	buf.Write(z.Bytes())
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xrefOff)
	return buf.Bytes()
}

// twoPageDoc mirrors the layout written by gofpdf: geometry and resources on
// the /Pages root, one image drawn on both pages.
var twoPageDoc = []string{
	"<< /Type /Catalog /Pages 2 0 R >>",
	"<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 /MediaBox [0 0 595.28 841.89] /Resources 5 0 R >>",
	"<< /Type /Page /Parent 2 0 R /Contents 7 0 R >>",
	"<< /Type /Page /Parent 2 0 R /Contents 7 0 R /Rotate 90 >>",
	"<< /ProcSet [/PDF /ImageC] /XObject << /I1 6 0 R >> >>",
	"<< /Type /XObject /Subtype /Image /Width 1 /Height 1 /Filter /DCTDecode /Length 4 >>\nstream\nJPEG\nendstream",
	"<< /Length 7 >>\nstream\nq Q\nq Q\nendstream",
}

func TestLoadPages(t *testing.T) {
	for name, data := range map[string][]byte{
		"table":  buildPDF(twoPageDoc...),
		"stream": buildXRefStreamPDF(twoPageDoc...),
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := Load(data)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			pages, err := doc.Pages()
			if err != nil {
				t.Fatalf("Pages: %v", err)
			}
			if len(pages) != 2 {
				t.Fatalf("got %d pages, want 2", len(pages))
			}

			info := doc.GetPageInfo(pages[0])
			if info.Width != 595.28 || info.Height != 841.89 {
				t.Errorf("inherited MediaBox = %vx%v, want 595.28x841.89", info.Width, info.Height)
			}
			if got := doc.GetPageInfo(pages[1]).Rotation; got != 90 {
				t.Errorf("Rotation = %d, want 90", got)
			}
			for i, p := range pages {
				if got := doc.PageImages(p); !reflect.DeepEqual(got, []string{"I1"}) {
					t.Errorf("page %d images = %v, want [I1]", i, got)
				}
			}
		})
	}
}

func TestPageContents(t *testing.T) {
	doc, err := Load(buildPDF(twoPageDoc...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pages, _ := doc.Pages()
	got, err := doc.PageContents(pages[0])
	if err != nil {
		t.Fatalf("PageContents: %v", err)
	}
	if !bytes.Contains(got, []byte("q Q")) {
		t.Errorf("contents = %q", got)
	}
}

func TestPageImagesSkipsForms(t *testing.T) {
	doc, err := Load(buildPDF(
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /MediaBox [0 0 100 100] /Resources << /XObject << /Fm 4 0 R >> >> >>",
		"<< /Type /XObject /Subtype /Form /Length 0 >>\nstream\n\nendstream",
	))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pages, _ := doc.Pages()
	if got := doc.PageImages(pages[0]); len(got) != 0 {
		t.Errorf("PageImages = %v, want none", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not pdf", []byte("hello")},
		{"no startxref", []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := Load([]byte("hello")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("err = %v, want ErrNotPDF", err)
	}
}

func TestVersion(t *testing.T) {
	doc, err := Load(buildXRefStreamPDF(twoPageDoc...))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v := doc.Version(); v != "1.5" {
		t.Errorf("Version = %q, want 1.5", v)
	}
}

func TestParseObjects(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
	}{
		{"null", Null},
		{"true", Bool},
		{"42", Int},
		{"-3.5", Real},
		{"(a (nested) string)", String},
		{"<48656c6c6f>", String},
		{"/Name#20Space", Name},
		{"[1 2 0 R /X]", Array},
		{"<< /A 1 >>", Dictionary},
		{"<< /Length 3 >>\nstream\nabc\nendstream", Stream},
		{"7 0 R", Ref},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			obj, err := newParser([]byte(tt.in), 0).object()
			if err != nil {
				t.Fatalf("object: %v", err)
			}
			if obj.Kind != tt.kind {
				t.Errorf("Kind = %d, want %d", obj.Kind, tt.kind)
			}
		})
	}
}

func TestParseValues(t *testing.T) {
	obj, _ := newParser([]byte(`<< /S (a\)b\101) /H <48656c6c6f> /N /A#42 /Arr [1 2 0 R] /L 3 >>`), 0).object()
	d := obj.Dict
	if got := string(d["S"].Str); got != "a)bA" {
		t.Errorf("S = %q", got)
	}
	if got := string(d["H"].Str); got != "Hello" {
		t.Errorf("H = %q", got)
	}
	if got, _ := d.Name("N"); got != "AB" {
		t.Errorf("N = %q", got)
	}
	arr, _ := d.Array("Arr")
	if len(arr) != 2 || arr[0].Int != 1 || arr[1].Kind != Ref || arr[1].Ref.Number != 2 {
		t.Errorf("Arr = %+v", arr)
	}
	if n, ok := d.Int("L"); !ok || n != 3 {
		t.Errorf("L = %d, %v", n, ok)
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := bytes.Repeat([]byte("["), maxDepth+1)
	if _, err := newParser(deep, 0).object(); err == nil {
		t.Error("expected depth error")
	}
}

func TestUnpredictPNGUp(t *testing.T) {
	// Two rows of two bytes with the Up filter.
	data := []byte{2, 1, 2, 2, 1, 1}
	p := Dict{
		"Predictor": {Kind: Int, Int: 12},
		"Columns":   {Kind: Int, Int: 2},
	}
	got, err := unpredict(p, data)
	if err != nil {
		t.Fatalf("unpredict: %v", err)
	}
	if want := []byte{1, 2, 2, 3}; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDecodeUnsupportedFilter(t *testing.T) {
	d := Dict{"Filter": {Kind: Name, Name: "LZWDecode"}}
	if _, err := Decode(d, []byte("x")); err == nil {
		t.Error("expected error for unsupported filter")
	}
}
