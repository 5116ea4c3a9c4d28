package transcriptpdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Deliverer hands a finished artifact to its destination, such as a browser
// download, an upload or a local directory.
type Deliverer interface {
	Deliver(ctx context.Context, a *Artifact) error
}

// DirDeliverer writes artifacts into a directory under their suggested
// names. A file appears under its final name only once it is complete.
type DirDeliverer struct {
	Dir  string
	Perm os.FileMode
}

// Deliver writes a to Dir/a.Name, replacing an existing file.
func (d DirDeliverer) Deliver(ctx context.Context, a *Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	perm := d.Perm
	if perm == 0 {
		perm = 0o644
	}
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+a.Name+".*.part")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmp)
		}
	}()

	if _, err := a.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", a.Name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", a.Name, err)
	}
	if err := os.Chmod(tmp, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, a.Name)); err != nil {
		return fmt.Errorf("moving %s into place: %w", a.Name, err)
	}
	committed = true
	return nil
}
