package main

import (
	"errors"
	"os"

	transcriptpdf "github.com/porticus-lab/go-transcript-pdf"
	"github.com/porticus-lab/go-transcript-pdf/internal/config"
	"github.com/porticus-lab/go-transcript-pdf/internal/pdf"
)

// Exit codes for the transcript-export CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or missing input
	ExitIO      = 3 // File or network errors
	ExitBrowser = 4 // Browser or rendering errors
)

// exitCodeFor maps an error to an exit code with errors.Is, so callers must
// wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, transcriptpdf.ErrRenderFailed) {
		return ExitBrowser
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, transcriptpdf.ErrFetchFailed) ||
		errors.Is(err, transcriptpdf.ErrPackagingFailed) ||
		errors.Is(err, pdf.ErrNotPDF) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, transcriptpdf.ErrMissingInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidValue) {
		return ExitUsage
	}

	return ExitGeneral
}
