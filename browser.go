package transcriptpdf

import (
	"fmt"

	"github.com/go-rod/rod/lib/launcher"
)

// resolveBrowser downloads a compatible Chromium binary if one is not
// already cached and returns the path to the executable. The binary is
// stored in ~/.cache/rod/browser (Unix) or %APPDATA%\rod\browser (Windows).
func resolveBrowser() (string, error) {
	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("downloading browser: %w", err)
	}
	return path, nil
}

// browserPath returns the configured executable, downloading one when
// auto-download is enabled and no path was given. An empty result lets the
// driver search standard locations.
func (c *exporterConfig) browserPath() (string, error) {
	if c.chromePath != "" || !c.autoDownload {
		return c.chromePath, nil
	}
	return resolveBrowser()
}

// newRasterizer starts the rasterizer selected by the configuration.
func (c *exporterConfig) newRasterizer() (Rasterizer, error) {
	if c.rasterizer != nil {
		return c.rasterizer, nil
	}
	path, err := c.browserPath()
	if err != nil {
		return nil, err
	}
	switch c.backend {
	case BackendRod:
		return newRodRasterizer(path, c.noSandbox, c.headless)
	case BackendChromedp, "":
		return newChromedpRasterizer(path, c.noSandbox, c.headless)
	default:
		return nil, fmt.Errorf("unknown backend %q", c.backend)
	}
}
