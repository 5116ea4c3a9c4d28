package main

import (
	"encoding/json"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/porticus-lab/go-transcript-pdf/internal/pdf"
)

// pointsPerMM converts PDF points to millimetres.
const pointsPerMM = 72 / 25.4

type pageReport struct {
	Page     int      `json:"page"`
	WidthMM  float64  `json:"widthMM"`
	HeightMM float64  `json:"heightMM"`
	Rotation int      `json:"rotation,omitempty"`
	Images   []string `json:"images"`
}

type inspectReport struct {
	File    string       `json:"file"`
	Version string       `json:"version"`
	Objects int          `json:"objects"`
	Pages   []pageReport `json:"pages"`
}

// runInspect implements the "inspect" command.
func runInspect(args []string, env environment) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(env.stderr)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: no input file specified", ErrUsage)
	}
	path := fs.Arg(0)

	doc, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	pages, err := doc.Pages()
	if err != nil {
		return fmt.Errorf("reading pages: %w", err)
	}

	report := inspectReport{
		File:    path,
		Version: doc.Version(),
		Objects: doc.ObjectCount(),
	}
	for i, p := range pages {
		info := doc.GetPageInfo(p)
		report.Pages = append(report.Pages, pageReport{
			Page:     i + 1,
			WidthMM:  info.Width / pointsPerMM,
			HeightMM: info.Height / pointsPerMM,
			Rotation: info.Rotation,
			Images:   doc.PageImages(p),
		})
	}

	if *asJSON {
		enc := json.NewEncoder(env.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintf(env.stdout, "File:    %s\n", report.File)
	fmt.Fprintf(env.stdout, "Version: PDF-%s\n", report.Version)
	fmt.Fprintf(env.stdout, "Pages:   %d\n", len(report.Pages))
	for _, p := range report.Pages {
		fmt.Fprintf(env.stdout, "  Page %d: %.1f x %.1f mm, %d image(s)", p.Page, p.WidthMM, p.HeightMM, len(p.Images))
		if p.Rotation != 0 {
			fmt.Fprintf(env.stdout, " (rotated %d°)", p.Rotation)
		}
		fmt.Fprintln(env.stdout)
	}
	return nil
}
