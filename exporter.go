package transcriptpdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Exporter turns transcripts into downloadable artifacts.
//
// An Exporter drives a shared headless browser that is started on the first
// PDF export and reused afterwards. Every export lays out its document on a
// private surface, so an Exporter is safe for concurrent use.
//
// Call [Exporter.Close] when the Exporter is no longer needed to release
// browser resources.
type Exporter struct {
	cfg exporterConfig

	mu     sync.Mutex
	raster Rasterizer
	closed bool
}

// New creates an Exporter with the given options. The browser is not
// started until it is first needed.
func New(opts ...Option) (*Exporter, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	switch cfg.backend {
	case BackendChromedp, BackendRod:
	default:
		if cfg.rasterizer == nil {
			return nil, fmt.Errorf("transcriptpdf: unknown backend %q", cfg.backend)
		}
	}
	return &Exporter{cfg: cfg}, nil
}

// Close releases all resources held by the Exporter, including the browser
// process. Close is idempotent.
func (e *Exporter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	if e.raster == nil {
		return nil
	}
	return e.raster.Close()
}

func (e *Exporter) checkClosed() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}

// rasterizer returns the shared rasterizer, starting it on first use.
func (e *Exporter) rasterizer() (Rasterizer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if e.raster != nil {
		return e.raster, nil
	}
	r, err := e.cfg.newRasterizer()
	if err != nil {
		return nil, err
	}
	e.raster = r
	return r, nil
}

func (e *Exporter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.timeout > 0 {
		return context.WithTimeout(ctx, e.cfg.timeout)
	}
	return context.WithCancel(ctx)
}

// ExportPDF renders doc into a paginated A4 PDF. The document is laid out
// once, captured as a single image, and sliced into pages; sections that
// fit on one page are never split. The artifact is returned only after the
// PDF has been read back and checked.
//
// Errors wrap [ErrMissingInput], [ErrRenderFailed] or [ErrPackagingFailed].
func (e *Exporter) ExportPDF(ctx context.Context, doc *SourceDocument) (*Artifact, error) {
	if err := e.checkClosed(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrMissingInput
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	rd, err := ComposeAt(doc, e.cfg.now())
	if err != nil {
		return nil, err
	}
	log := e.cfg.logger.WithFields(logrus.Fields{
		"op":      "export_pdf",
		"title":   rd.Title,
		"backend": e.cfg.backend,
	})

	pg := e.cfg.page
	markup, err := rd.HTML(&pg)
	if err != nil {
		return nil, err
	}
	surface, err := acquireSurface(markup)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	defer func() {
		if err := surface.Release(); err != nil {
			log.WithError(err).Warn("releasing render surface")
		}
	}()

	r, err := e.rasterizer()
	if err != nil {
		if errors.Is(err, ErrClosed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	raster, err := r.Rasterize(ctx, surface, RasterSpec{
		Width:       pg.viewportWidth(),
		PageHeight:  pg.pageHeightPixels(),
		Scale:       pg.Scale,
		Quality:     pg.Quality,
		SettleDelay: e.cfg.settleDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	pages := pg.paginator().Paginate(float64(raster.Height), float64(raster.Width))
	data, err := packagePages(raster, pages, pg, rd.Title, rd.ExportedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackagingFailed, err)
	}
	if err := verifyPackage(data, pages, imageHeight(raster, pg), pg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackagingFailed, err)
	}

	log.WithFields(logrus.Fields{
		"pages":  len(pages),
		"breaks": raster.Breaks,
		"bytes":  len(data),
	}).Info("exported PDF")

	return &Artifact{
		Name:        artifactName(rd.Title, ".pdf"),
		ContentType: ContentTypePDF,
		Pages:       len(pages),
		data:        data,
	}, nil
}

// ExportText serializes doc as plain UTF-8 text. It needs no browser.
func (e *Exporter) ExportText(ctx context.Context, doc *SourceDocument) (*Artifact, error) {
	if err := e.checkClosed(); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrMissingInput
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPackagingFailed, err)
	}
	rd, err := ComposeAt(doc, e.cfg.now())
	if err != nil {
		return nil, err
	}
	text := rd.PlainText()
	e.cfg.logger.WithFields(logrus.Fields{
		"op":    "export_text",
		"title": rd.Title,
		"bytes": len(text),
	}).Info("exported text")

	return &Artifact{
		Name:        artifactName(rd.Title, ".txt"),
		ContentType: ContentTypeText,
		data:        []byte(text),
	}, nil
}

// Export produces the artifact of format f for doc.
func (e *Exporter) Export(ctx context.Context, doc *SourceDocument, f Format) (*Artifact, error) {
	switch f {
	case FormatPDF:
		return e.ExportPDF(ctx, doc)
	case FormatText:
		return e.ExportText(ctx, doc)
	}
	return nil, fmt.Errorf("transcriptpdf: unsupported format %v", f)
}

// ExportByID fetches the stored transcript id, exports it as f and hands the
// artifact to the configured [Deliverer], if any.
//
// The progress indicator is shown while the fetch and the export run and is
// always hidden again. On failure the notifier receives exactly one message
// from [UserMessage] and the error is returned. An empty id fails with
// [ErrMissingInput] before anything is fetched.
func (e *Exporter) ExportByID(ctx context.Context, id string, f Format) (a *Artifact, err error) {
	log := e.cfg.logger.WithFields(logrus.Fields{"op": "export_by_id", "id": id})
	defer func() {
		if err != nil {
			log.WithError(err).Debug("export failed")
			e.cfg.notifier.Alert(UserMessage(err))
		}
	}()

	if err := e.checkClosed(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, ErrMissingInput
	}
	if e.cfg.fetcher == nil {
		return nil, fmt.Errorf("%w: no fetcher configured", ErrFetchFailed)
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	doc, err := e.step(labelFetching, func() (*SourceDocument, error) {
		return e.cfg.fetcher.Fetch(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, ErrFetchFailed) && !errors.Is(err, ErrMissingInput) {
			err = fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		return nil, err
	}

	e.cfg.progress.Show(progressLabel(f))
	defer e.cfg.progress.Hide()

	if a, err = e.Export(ctx, doc, f); err != nil {
		return nil, err
	}
	if e.cfg.deliverer != nil {
		if err := e.cfg.deliverer.Deliver(ctx, a); err != nil {
			return nil, fmt.Errorf("%w: delivering %s: %w", ErrPackagingFailed, a.Name, err)
		}
	}
	log.WithFields(logrus.Fields{"name": a.Name, "bytes": a.Len()}).Info("delivered artifact")
	return a, nil
}

// step runs fn with the progress indicator showing label.
func (e *Exporter) step(label string, fn func() (*SourceDocument, error)) (*SourceDocument, error) {
	e.cfg.progress.Show(label)
	defer e.cfg.progress.Hide()
	return fn()
}
