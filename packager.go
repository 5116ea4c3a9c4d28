package transcriptpdf

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/porticus-lab/go-transcript-pdf/internal/pdf"
)

// documentImage is the resource name of the shared page image.
const documentImage = "document"

// imageHeight is the height in millimetres of r once scaled to the page width.
func imageHeight(r *Raster, pg PageConfig) float64 {
	return pg.paginator().scaledHeight(float64(r.Height), float64(r.Width))
}

// packagePages writes one PDF page per slice. Every page shows the same
// document image, shifted up by the page's content offset and clipped to the
// page, so the image is embedded once however many pages there are.
func packagePages(r *Raster, pages []Page, pg PageConfig, title string, created time.Time) ([]byte, error) {
	w, h := pg.paperDimensions()
	imgHeight := imageHeight(r, pg)

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCompression(true)
	doc.SetTitle(title, true)
	doc.SetCreator("go-transcript-pdf", true)
	doc.SetCreationDate(created)

	opts := gofpdf.ImageOptions{ImageType: "JPG", AllowNegativePosition: true}
	doc.RegisterImageOptionsReader(documentImage, opts, bytes.NewReader(r.Data))
	if doc.Err() {
		return nil, fmt.Errorf("registering page image: %w", doc.Error())
	}

	for _, p := range pages {
		doc.AddPage()
		doc.ClipRect(0, 0, w, h, false)
		doc.ImageOptions(documentImage, 0, p.ContentOffset, w, imgHeight, false, opts, 0, "")
		doc.ClipEnd()
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pointsPerMM converts millimetres to PDF user space units.
const pointsPerMM = 72 / 25.4

// placementTolerance is the allowed error, in points, of a read-back image
// placement. gofpdf prints five decimals.
const placementTolerance = 0.01

// imagePlacement matches the transformation gofpdf writes before drawing an
// image: width, height, x and y of the image in points.
var imagePlacement = regexp.MustCompile(`([-0-9.]+) 0 0 ([-0-9.]+) ([-0-9.]+) ([-0-9.]+) cm /(\S+) Do`)

// verifyPackage re-reads a packaged PDF and checks that it holds one page per
// slice at the configured paper size, each drawing the document image once at
// the slice's content offset. imgHeight is the image height in millimetres.
func verifyPackage(data []byte, pages []Page, imgHeight float64, pg PageConfig) error {
	doc, err := pdf.Load(data)
	if err != nil {
		return fmt.Errorf("reading back PDF: %w", err)
	}
	got, err := doc.Pages()
	if err != nil {
		return fmt.Errorf("reading back pages: %w", err)
	}
	if len(got) != len(pages) {
		return fmt.Errorf("PDF has %d pages, want %d", len(got), len(pages))
	}

	w, h := pg.paperDimensions()
	for i, p := range got {
		info := doc.GetPageInfo(p)
		if math.Abs(info.Width-w*pointsPerMM) > 1 || math.Abs(info.Height-h*pointsPerMM) > 1 {
			return fmt.Errorf("page %d is %.1fx%.1f pt, want %.1fx%.1f pt",
				i, info.Width, info.Height, w*pointsPerMM, h*pointsPerMM)
		}
		if n := len(doc.PageImages(p)); n != 1 {
			return fmt.Errorf("page %d references %d images, want 1", i, n)
		}

		contents, err := doc.PageContents(p)
		if err != nil {
			return fmt.Errorf("reading page %d contents: %w", i, err)
		}
		m := imagePlacement.FindAllSubmatch(contents, -1)
		if len(m) != 1 {
			return fmt.Errorf("page %d draws %d images, want 1", i, len(m))
		}
		y, err := strconv.ParseFloat(string(m[0][4]), 64)
		if err != nil {
			return fmt.Errorf("page %d: bad image position %q", i, m[0][4])
		}
		// PDF places the image by its lower edge, measured from the page bottom.
		want := (h - (pages[i].ContentOffset + imgHeight)) * pointsPerMM
		if math.Abs(y-want) > placementTolerance {
			return fmt.Errorf("page %d image at y=%.3f pt, want %.3f pt", i, y, want)
		}
	}
	return nil
}
