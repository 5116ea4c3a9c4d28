package transcriptpdf

import "testing"

func TestPaginate(t *testing.T) {
	pg := Paginator{PageWidth: 210, PageHeight: 297}
	tests := []struct {
		name      string
		height    float64
		width     float64
		wantPages int
	}{
		{"empty", 0, 0, 1},
		{"negative", -5, 0, 1},
		{"short", 100, 0, 1},
		{"exact page", 297, 0, 1},
		{"exact multiple", 297 * 3, 0, 3},
		{"float noise", 297*3 + 1e-12, 0, 3},
		{"just over", 297.5, 0, 2},
		{"barely over", 297.0000001, 0, 2},
		{"barely over many", 297*40 + 1e-6, 0, 41},
		{"long", 1000, 0, 4},
		{"scaled pixels", 1123 * 2 * 2, 794 * 2, 3},
		{"scaled single", 500, 1588, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := pg.Paginate(tt.height, tt.width)
			if len(pages) != tt.wantPages {
				t.Fatalf("got %d pages, want %d", len(pages), tt.wantPages)
			}
			for i, p := range pages {
				if p.Index != i {
					t.Errorf("page %d: Index = %d", i, p.Index)
				}
				if want := -float64(i) * 297; !almostEqual(p.ContentOffset, want, 1e-9) {
					t.Errorf("page %d: ContentOffset = %v, want %v", i, p.ContentOffset, want)
				}
				if p.Height != 297 {
					t.Errorf("page %d: Height = %v", i, p.Height)
				}
			}
		})
	}
}

func TestPaginate_ZeroPageHeight(t *testing.T) {
	pages := Paginator{PageWidth: 210}.Paginate(5000, 0)
	if len(pages) != 1 {
		t.Errorf("got %d pages, want 1", len(pages))
	}
}

func TestDefaultPaginator(t *testing.T) {
	pg := DefaultPaginator()
	if pg.PageWidth != A4.Width || pg.PageHeight != A4.Height {
		t.Errorf("DefaultPaginator = %+v", pg)
	}
}
