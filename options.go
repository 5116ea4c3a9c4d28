package transcriptpdf

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// exporterConfig holds internal configuration for an Exporter.
type exporterConfig struct {
	backend      Backend
	rasterizer   Rasterizer
	chromePath   string
	autoDownload bool
	noSandbox    bool
	headless     string
	timeout      time.Duration
	settleDelay  time.Duration
	page         PageConfig
	fetcher      Fetcher
	deliverer    Deliverer
	progress     Progress
	notifier     Notifier
	logger       logrus.FieldLogger
	now          func() time.Time
}

func defaultConfig() exporterConfig {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return exporterConfig{
		backend:     BackendChromedp,
		headless:    "new",
		timeout:     60 * time.Second,
		settleDelay: 100 * time.Millisecond,
		page:        DefaultPageConfig(),
		progress:    nopProgress{},
		notifier:    nopNotifier{},
		logger:      discard,
		now:         time.Now,
	}
}

// Option configures an [Exporter].
type Option func(*exporterConfig)

// WithBackend selects the built-in browser driver used for rasterization.
// Defaults to [BackendChromedp].
func WithBackend(b Backend) Option {
	return func(c *exporterConfig) {
		c.backend = b
	}
}

// WithRasterizer plugs in a custom rasterizer. It takes precedence over
// [WithBackend] and is closed together with the Exporter.
func WithRasterizer(r Rasterizer) Option {
	return func(c *exporterConfig) {
		c.rasterizer = r
	}
}

// WithChromePath sets the path to the Chrome or Chromium executable.
// By default the library searches standard locations automatically.
func WithChromePath(path string) Option {
	return func(c *exporterConfig) {
		c.chromePath = path
	}
}

// WithAutoDownload downloads a compatible Chromium build into the user's
// cache on first use when no browser path is configured.
func WithAutoDownload() Option {
	return func(c *exporterConfig) {
		c.autoDownload = true
	}
}

// WithNoSandbox disables the Chrome sandbox. This is required when
// running as root, for example inside Docker containers.
func WithNoSandbox() Option {
	return func(c *exporterConfig) {
		c.noSandbox = true
	}
}

// WithTimeout sets the maximum duration of a single export, fetch included.
// Defaults to 60 seconds. A zero or negative value disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *exporterConfig) {
		c.timeout = d
	}
}

// WithSettleDelay sets how long to wait after the document has loaded and
// before it is measured, so that web fonts can settle. Defaults to 100ms.
func WithSettleDelay(d time.Duration) Option {
	return func(c *exporterConfig) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

// WithPageConfig sets the page geometry. Zero fields keep their defaults.
func WithPageConfig(pg PageConfig) Option {
	return func(c *exporterConfig) {
		c.page = pg.resolved()
	}
}

// WithFetcher sets the source of documents for [Exporter.ExportByID].
func WithFetcher(f Fetcher) Option {
	return func(c *exporterConfig) {
		c.fetcher = f
	}
}

// WithDeliverer sets where [Exporter.ExportByID] hands finished artifacts.
func WithDeliverer(d Deliverer) Option {
	return func(c *exporterConfig) {
		c.deliverer = d
	}
}

// WithProgress sets the indicator shown while [Exporter.ExportByID] runs.
func WithProgress(p Progress) Option {
	return func(c *exporterConfig) {
		if p != nil {
			c.progress = p
		}
	}
}

// WithNotifier sets the receiver of the user-facing failure message of
// [Exporter.ExportByID].
func WithNotifier(n Notifier) Option {
	return func(c *exporterConfig) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *exporterConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock overrides the clock used for the export timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *exporterConfig) {
		if now != nil {
			c.now = now
		}
	}
}
