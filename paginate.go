package transcriptpdf

import "math"

// Page is one output slice of the rasterized document. All measurements are
// in the Paginator's units.
type Page struct {
	// Index is the 0-based position of the page.
	Index int
	// ContentOffset is the vertical position at which the full document
	// image is placed on this page. It is zero or negative, so the band
	// belonging to the page is the one visible within its bounds.
	ContentOffset float64
	// Height is the page height.
	Height float64
}

// Paginator slices a rendered document into fixed-size pages. It is purely
// geometric: section boundaries must already have been resolved in the
// layout before the document was rasterized.
type Paginator struct {
	PageWidth  float64
	PageHeight float64
}

// DefaultPaginator returns a Paginator for A4 portrait pages in millimetres.
func DefaultPaginator() Paginator {
	return Paginator{PageWidth: A4.Width, PageHeight: A4.Height}
}

// overflowTolerance is an absolute height, in the Paginator's units, that a
// document may exceed an exact multiple of the page height by without
// spilling onto an extra page. It only absorbs floating point noise; any
// larger overflow starts a new page.
const overflowTolerance = 1e-9

// Paginate computes the pages for a document rendered totalHeight tall and
// renderedWidth wide. When renderedWidth is positive the height is first
// scaled to the page width, so pixel dimensions of a rasterized image can be
// passed directly. A non-positive renderedWidth means totalHeight is already
// in page units.
//
// The page count is ceil(h / PageHeight) for the scaled height h, at least
// one page, also for an empty document.
func (pg Paginator) Paginate(totalHeight, renderedWidth float64) []Page {
	h := pg.scaledHeight(totalHeight, renderedWidth)
	count := 1
	if h > 0 && pg.PageHeight > 0 {
		count = int(math.Ceil((h - overflowTolerance) / pg.PageHeight))
		if count < 1 {
			count = 1
		}
	}

	pages := make([]Page, count)
	for i := range pages {
		pages[i] = Page{
			Index:         i,
			ContentOffset: -(float64(i) * pg.PageHeight),
			Height:        pg.PageHeight,
		}
	}
	return pages
}

// scaledHeight returns the height of a renderedWidth-wide image once it is
// scaled to the page width.
func (pg Paginator) scaledHeight(height, renderedWidth float64) float64 {
	if renderedWidth <= 0 || pg.PageWidth <= 0 {
		return height
	}
	return height * pg.PageWidth / renderedWidth
}
