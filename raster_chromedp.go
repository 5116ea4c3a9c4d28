package transcriptpdf

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// chromedpRasterizer drives a headless browser over the DevTools protocol
// with chromedp. One browser process is shared; every call gets its own tab.
type chromedpRasterizer struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var _ Rasterizer = (*chromedpRasterizer)(nil)

func newChromedpRasterizer(chromePath string, noSandbox bool, headless string) (*chromedpRasterizer, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("headless", headless),
	)
	if chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(chromePath))
	}
	if noSandbox {
		allocOpts = append(allocOpts, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so errors surface at creation time.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &chromedpRasterizer{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

func (r *chromedpRasterizer) Close() error {
	r.browserCancel()
	r.allocCancel()
	return nil
}

func (r *chromedpRasterizer) Rasterize(ctx context.Context, s *Surface, spec RasterSpec) (*Raster, error) {
	tabCtx, tabCancel := chromedp.NewContext(r.browserCtx)
	defer tabCancel()

	// Tie the tab to the caller's deadline.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var (
		measured string
		height   float64
		breaks   int
		shot     []byte
	)
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(spec.Width), int64(spec.viewportHeight()), chromedp.EmulateScale(spec.Scale)),
		chromedp.Navigate(s.URL()),
		chromedp.WaitReady("#document", chromedp.ByQuery),
		chromedp.Sleep(spec.SettleDelay),
		chromedp.Evaluate("("+measureSectionsJS+")()", &measured),
		chromedp.ActionFunc(func(ctx context.Context) error {
			spacers, err := planFromMeasurement(measured, spec.PageHeight)
			if err != nil {
				return err
			}
			breaks = countBreaks(spacers)
			expr, err := invokeJS(applySpacersJS, spacers)
			if err != nil {
				return err
			}
			return chromedp.Evaluate(expr, &height).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatJpeg).
				WithQuality(int64(spec.Quality)).
				WithClip(&page.Viewport{
					X:      0,
					Y:      0,
					Width:  float64(spec.Width),
					Height: height,
					Scale:  1,
				}).
				WithCaptureBeyondViewport(true).
				WithFromSurface(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return newRaster(shot, breaks)
}
