package transcriptpdf

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// rodRasterizer drives a headless browser with go-rod. One browser process
// is shared; every call opens its own page.
type rodRasterizer struct {
	browser *rod.Browser
}

var _ Rasterizer = (*rodRasterizer)(nil)

func newRodRasterizer(chromePath string, noSandbox bool, headless string) (*rodRasterizer, error) {
	l := withHeadless(launcher.New(), headless)
	if chromePath != "" {
		l = l.Bin(chromePath)
	}
	if noSandbox {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &rodRasterizer{browser: browser}, nil
}

// withHeadless applies a --headless mode the way Chrome spells it: "" or
// "true" for the plain switch, "false" to show the window, anything else
// such as "new" as the switch value.
func withHeadless(l *launcher.Launcher, mode string) *launcher.Launcher {
	switch mode {
	case "", "true":
		return l.Headless(true)
	case "false":
		return l.Headless(false)
	}
	return l.Set(flags.Headless, mode)
}

func (r *rodRasterizer) Close() error {
	return r.browser.Close()
}

func (r *rodRasterizer) Rasterize(ctx context.Context, s *Surface, spec RasterSpec) (*Raster, error) {
	p, err := r.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer p.Close()

	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             spec.Width,
		Height:            spec.viewportHeight(),
		DeviceScaleFactor: spec.Scale,
	})
	if err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}
	if err := p.Navigate(s.URL()); err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	select {
	case <-time.After(spec.SettleDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	measured, err := p.Eval(measureSectionsJS)
	if err != nil {
		return nil, fmt.Errorf("measuring sections: %w", err)
	}
	spacers, err := planFromMeasurement(measured.Value.Str(), spec.PageHeight)
	if err != nil {
		return nil, err
	}
	res, err := p.Eval(applySpacersJS, spacers)
	if err != nil {
		return nil, fmt.Errorf("applying page breaks: %w", err)
	}
	height := res.Value.Num()

	quality := spec.Quality
	shot, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
		Clip: &proto.PageViewport{
			X:      0,
			Y:      0,
			Width:  float64(spec.Width),
			Height: height,
			Scale:  1,
		},
		FromSurface:           true,
		CaptureBeyondViewport: true,
	})
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return newRaster(shot, countBreaks(spacers))
}
