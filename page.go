package transcriptpdf

import "math"

// PageSize represents paper dimensions in millimetres.
type PageSize struct {
	Width  float64 // Width in millimetres.
	Height float64 // Height in millimetres.
}

// Standard paper sizes.
var (
	A3     = PageSize{Width: 297, Height: 420}
	A4     = PageSize{Width: 210, Height: 297}
	A5     = PageSize{Width: 148, Height: 210}
	Letter = PageSize{Width: 215.9, Height: 279.4}
	Legal  = PageSize{Width: 215.9, Height: 355.6}
)

// Orientation represents the page orientation.
type Orientation int

const (
	// Portrait is the default vertical orientation.
	Portrait Orientation = iota
	// Landscape rotates the page to horizontal orientation.
	Landscape
)

// Margin represents spacing in millimetres.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(mm float64) Margin {
	return Margin{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// PageConfig controls the geometry of the rendered document and of the
// output pages.
//
// A nil PageConfig or zero-value fields use the defaults: A4 portrait,
// 15 mm of padding around the content, a device scale factor of 2 and JPEG
// quality 95.
type PageConfig struct {
	// Size specifies the paper size. Defaults to A4.
	Size PageSize

	// Orientation specifies portrait or landscape. Defaults to Portrait.
	Orientation Orientation

	// Padding is the space between the page edge and the content of the
	// rendered document. The content image always spans the full page
	// width, so this is the only visible margin.
	Padding Margin

	// Scale is the device scale factor used when rasterizing. Higher values
	// give sharper text and larger files. Must be between 1 and 4.
	Scale float64

	// Quality is the JPEG quality of the page image, 1 to 100.
	Quality int
}

// DefaultPageConfig returns a PageConfig with the default values.
func DefaultPageConfig() PageConfig {
	return PageConfig{
		Size:        A4,
		Orientation: Portrait,
		Padding:     UniformMargin(15),
		Scale:       2,
		Quality:     95,
	}
}

// resolved returns a PageConfig with all zero values replaced by defaults.
func (p *PageConfig) resolved() PageConfig {
	d := DefaultPageConfig()
	if p == nil {
		return d
	}
	r := *p
	if r.Size == (PageSize{}) {
		r.Size = d.Size
	}
	if r.Padding == (Margin{}) {
		r.Padding = d.Padding
	}
	if r.Scale < 1 || r.Scale > 4 {
		r.Scale = d.Scale
	}
	if r.Quality < 1 || r.Quality > 100 {
		r.Quality = d.Quality
	}
	return r
}

// cssPixelsPerMM is the CSS reference resolution (96 px per inch).
const cssPixelsPerMM = 96 / 25.4

// mmToCSSPixels converts millimetres to CSS pixels.
func mmToCSSPixels(mm float64) float64 {
	return mm * cssPixelsPerMM
}

// paperDimensions returns the page width and height in millimetres,
// accounting for orientation.
func (p *PageConfig) paperDimensions() (width, height float64) {
	r := p.resolved()
	if r.Orientation == Landscape {
		return r.Size.Height, r.Size.Width
	}
	return r.Size.Width, r.Size.Height
}

// viewportWidth returns the layout width in whole CSS pixels. A4 portrait
// gives 794.
func (p *PageConfig) viewportWidth() int {
	w, _ := p.paperDimensions()
	return int(math.Round(mmToCSSPixels(w)))
}

// pageHeightPixels returns the height of one page in CSS pixels at the
// layout width, keeping the paper's aspect ratio.
func (p *PageConfig) pageHeightPixels() float64 {
	w, h := p.paperDimensions()
	return h * float64(p.viewportWidth()) / w
}

// paginator returns the Paginator for this page geometry in millimetres.
func (p *PageConfig) paginator() Paginator {
	w, h := p.paperDimensions()
	return Paginator{PageWidth: w, PageHeight: h}
}
