package transcriptpdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // decode config of screenshots
	"math"
	"time"
)

// Rasterizer lays out a [Surface] in a headless browser and captures the
// whole document as a single image.
//
// Implementations must resolve avoid-break sections with [PlanFlowBreaks]
// before capturing, since pagination happens on the flat image afterwards.
type Rasterizer interface {
	Rasterize(ctx context.Context, s *Surface, spec RasterSpec) (*Raster, error)
	Close() error
}

// RasterSpec describes the layout viewport and capture settings.
type RasterSpec struct {
	// Width is the viewport width in CSS pixels.
	Width int
	// PageHeight is the height of one output page in CSS pixels at Width.
	PageHeight float64
	// Scale is the device scale factor.
	Scale float64
	// Quality is the JPEG quality.
	Quality int
	// SettleDelay is waited after load so web fonts can finish loading.
	SettleDelay time.Duration
}

// Raster is a captured document image.
type Raster struct {
	// Data holds the JPEG-encoded image.
	Data []byte
	// Width and Height are the image dimensions in device pixels.
	Width  int
	Height int
	// Breaks is the number of spacers inserted to keep sections whole.
	Breaks int
}

// Backend names a built-in rasterizer implementation.
type Backend string

// Built-in backends.
const (
	BackendChromedp Backend = "chromedp"
	BackendRod      Backend = "rod"
)

// measureSectionsJS returns the boxes of all sections relative to the
// document container as a JSON string.
const measureSectionsJS = `() => {
  const root = document.getElementById('document');
  const base = root.getBoundingClientRect().top;
  return JSON.stringify(Array.from(root.querySelectorAll('[data-section]')).map((el) => {
    const r = el.getBoundingClientRect();
    return { top: r.top - base, height: r.height, avoid: el.dataset.avoidBreak === 'true' };
  }));
}`

// applySpacersJS inserts a spacer of the given height before each section
// and returns the resulting document height in CSS pixels.
const applySpacersJS = `(spacers) => {
  const root = document.getElementById('document');
  const sections = root.querySelectorAll('[data-section]');
  spacers.forEach((px, i) => {
    if (px > 0 && sections[i]) {
      const gap = document.createElement('div');
      gap.className = 'flow-break';
      gap.style.height = px + 'px';
      sections[i].parentNode.insertBefore(gap, sections[i]);
    }
  });
  return Math.ceil(root.getBoundingClientRect().height);
}`

// invokeJS builds an expression calling fn with JSON-encoded args.
func invokeJS(fn string, args ...any) (string, error) {
	var b bytes.Buffer
	b.WriteString("(")
	b.WriteString(fn)
	b.WriteString(")(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(",")
		}
		enc, err := json.Marshal(a)
		if err != nil {
			return "", err
		}
		b.Write(enc)
	}
	b.WriteString(")")
	return b.String(), nil
}

// planFromMeasurement decodes the output of measureSectionsJS and plans the
// page breaks for it.
func planFromMeasurement(measured string, pageHeight float64) ([]float64, error) {
	var boxes []SectionBox
	if err := json.Unmarshal([]byte(measured), &boxes); err != nil {
		return nil, fmt.Errorf("decoding section boxes: %w", err)
	}
	return PlanFlowBreaks(boxes, pageHeight), nil
}

func countBreaks(spacers []float64) int {
	n := 0
	for _, s := range spacers {
		if s > 0 {
			n++
		}
	}
	return n
}

// newRaster validates a captured image and records its dimensions.
func newRaster(data []byte, breaks int) (*Raster, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding screenshot: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("empty screenshot %dx%d", cfg.Width, cfg.Height)
	}
	return &Raster{Data: data, Width: cfg.Width, Height: cfg.Height, Breaks: breaks}, nil
}

// viewportHeight is the initial viewport height: one page.
func (s RasterSpec) viewportHeight() int {
	return int(math.Ceil(s.PageHeight))
}
