package transcriptpdf

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"os/exec"
	"strings"
	"sync"
	"testing"
)

// chromeAvailable reports whether a Chrome/Chromium executable is in PATH.
func chromeAvailable() bool {
	for _, name := range []string{
		"chromium-browser", "chromium", "google-chrome",
		"google-chrome-stable", "chrome",
	} {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}

func skipIfNoChrome(t *testing.T) {
	t.Helper()
	if !chromeAvailable() {
		t.Skip("skipping: Chrome/Chromium not found in PATH")
	}
}

// testJPEG encodes a w by h image with a gradient so it is not trivially
// compressible.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

// fakeRasterizer returns a fixed image and records what it was asked to do.
type fakeRasterizer struct {
	data []byte
	err  error

	mu          sync.Mutex
	calls       int
	closed      int
	spec        RasterSpec
	surfacePath string
	markup      string
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, s *Surface, spec RasterSpec) (*Raster, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.spec = spec
	f.surfacePath = strings.TrimPrefix(s.URL(), "file://")
	if b, err := os.ReadFile(f.surfacePath); err == nil {
		f.markup = string(b)
	}
	if f.err != nil {
		return nil, f.err
	}
	return newRaster(f.data, 1)
}

func (f *fakeRasterizer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

// recordingProgress counts Show and Hide calls.
type recordingProgress struct {
	mu     sync.Mutex
	labels []string
	hides  int
}

func (p *recordingProgress) Show(label string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.labels = append(p.labels, label)
}

func (p *recordingProgress) Hide() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hides++
}

// recordingNotifier keeps every alert.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
}
