package transcriptpdf

import (
	"fmt"
	"os"
	"path/filepath"
)

// Surface is the off-screen page a single export lays its document out on.
// It is owned by exactly one export and must be released on every path.
type Surface struct {
	path string
}

// acquireSurface writes the document markup to a private temporary file
// that a browser tab can load.
func acquireSurface(markup string) (*Surface, error) {
	f, err := os.CreateTemp("", "transcriptpdf-*.html")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()

	if _, err := f.WriteString(markup); err != nil {
		f.Close()
		os.Remove(name)
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	abs, err := filepath.Abs(name)
	if err != nil {
		os.Remove(name)
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	return &Surface{path: abs}, nil
}

// URL returns the address a browser navigates to in order to load the
// surface.
func (s *Surface) URL() string {
	return "file://" + filepath.ToSlash(s.path)
}

// Release removes the surface. It is safe to call more than once.
func (s *Surface) Release() error {
	if s == nil || s.path == "" {
		return nil
	}
	err := os.Remove(s.path)
	s.path = ""
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
