package transcriptpdf

import "errors"

// Sentinel errors returned by the library. Export failures wrap one of the
// kind errors together with the underlying cause, so callers match them with
// [errors.Is].
var (
	// ErrClosed is returned when attempting to use a closed [Exporter].
	ErrClosed = errors.New("transcriptpdf: exporter is closed")

	// ErrMissingInput reports that no source document was supplied.
	ErrMissingInput = errors.New("transcriptpdf: no document to export")

	// ErrFetchFailed reports a failed or non-success response from the
	// transcript service.
	ErrFetchFailed = errors.New("transcriptpdf: fetching transcript failed")

	// ErrRenderFailed reports a failure while laying out or rasterizing the
	// document.
	ErrRenderFailed = errors.New("transcriptpdf: rendering failed")

	// ErrPackagingFailed reports a failure while assembling or delivering
	// the output artifact.
	ErrPackagingFailed = errors.New("transcriptpdf: packaging failed")
)
