package transcriptpdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/porticus-lab/go-transcript-pdf/internal/pdf"
)

func TestPackagePages(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		wantPages int
	}{
		{"single page", 200, 100, 1},
		// 700 px at 200 px wide scales to 735 mm.
		{"three pages", 200, 700, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := newRaster(testJPEG(t, tt.w, tt.h), 0)
			if err != nil {
				t.Fatal(err)
			}
			pg := DefaultPageConfig()
			pages := pg.paginator().Paginate(float64(r.Height), float64(r.Width))
			if len(pages) != tt.wantPages {
				t.Fatalf("Paginate gave %d pages, want %d", len(pages), tt.wantPages)
			}

			data, err := packagePages(r, pages, pg, "عنوان", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
			if err != nil {
				t.Fatalf("packagePages: %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				t.Fatal("output is not a PDF")
			}
			if err := verifyPackage(data, pages, imageHeight(r, pg), pg); err != nil {
				t.Fatalf("verifyPackage: %v", err)
			}

			doc, err := pdf.Load(data)
			if err != nil {
				t.Fatal(err)
			}
			pp, err := doc.Pages()
			if err != nil {
				t.Fatal(err)
			}
			// The image is embedded once and shared by every page.
			first := doc.PageImages(pp[0])
			for i, p := range pp {
				imgs := doc.PageImages(p)
				if len(imgs) != 1 || imgs[0] != first[0] {
					t.Errorf("page %d images = %v, want %v", i, imgs, first)
				}
			}
		})
	}
}

func TestVerifyPackage_WrongCount(t *testing.T) {
	r, err := newRaster(testJPEG(t, 100, 50), 0)
	if err != nil {
		t.Fatal(err)
	}
	pg := DefaultPageConfig()
	pages := pg.paginator().Paginate(50, 100)
	data, err := packagePages(r, pages, pg, "t", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	extra := append(pages, Page{Index: 1, ContentOffset: -297, Height: 297})
	if err := verifyPackage(data, extra, imageHeight(r, pg), pg); err == nil {
		t.Error("expected page count mismatch")
	}
}

func TestVerifyPackage_WrongSize(t *testing.T) {
	r, err := newRaster(testJPEG(t, 100, 50), 0)
	if err != nil {
		t.Fatal(err)
	}
	pg := DefaultPageConfig()
	pages := pg.paginator().Paginate(50, 100)
	data, err := packagePages(r, pages, pg, "t", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	landscape := pg
	landscape.Orientation = Landscape
	if err := verifyPackage(data, pages, imageHeight(r, pg), landscape); err == nil {
		t.Error("expected size mismatch")
	}
}

func TestVerifyPackage_ContentOffset(t *testing.T) {
	r, err := newRaster(testJPEG(t, 200, 700), 0)
	if err != nil {
		t.Fatal(err)
	}
	pg := DefaultPageConfig()
	pages := pg.paginator().Paginate(float64(r.Height), float64(r.Width))
	data, err := packagePages(r, pages, pg, "t", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := verifyPackage(data, pages, imageHeight(r, pg), pg); err != nil {
		t.Fatalf("verifyPackage: %v", err)
	}

	// Every page but the first must show the image shifted up by whole pages.
	shifted := make([]Page, len(pages))
	copy(shifted, pages)
	shifted[2].ContentOffset = shifted[1].ContentOffset
	if err := verifyPackage(data, shifted, imageHeight(r, pg), pg); err == nil {
		t.Error("expected offset mismatch on the last page")
	}
	if err := verifyPackage(data, pages, imageHeight(r, pg)+1, pg); err == nil {
		t.Error("expected offset mismatch for a wrong image height")
	}
}

func TestVerifyPackage_NotPDF(t *testing.T) {
	if err := verifyPackage([]byte("hello"), []Page{{Height: 297}}, 100, DefaultPageConfig()); err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestNewRaster(t *testing.T) {
	r, err := newRaster(testJPEG(t, 30, 40), 2)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width != 30 || r.Height != 40 || r.Breaks != 2 {
		t.Errorf("got %dx%d breaks %d", r.Width, r.Height, r.Breaks)
	}
	if _, err := newRaster([]byte("not an image"), 0); err == nil {
		t.Error("expected error for invalid image")
	}
}
