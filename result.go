package transcriptpdf

import "io"

// Content types of the artifacts produced by an [Exporter].
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeText = "text/plain; charset=utf-8"
)

// Artifact is a finished export: a downloadable file name, its content type
// and the complete content. An Artifact is only ever returned whole; its
// data is never modified after creation.
type Artifact struct {
	// Name is the suggested file name, for example "My_Video.pdf".
	Name string
	// ContentType is the MIME type of the content.
	ContentType string
	// Pages is the page count of a PDF artifact, 0 for text.
	Pages int

	data []byte
}

// Bytes returns the content. Callers must not modify it.
func (a *Artifact) Bytes() []byte { return a.data }

// Len is the content size in bytes.
func (a *Artifact) Len() int { return len(a.data) }

// WriteTo writes the content to w, so an Artifact can be streamed to a
// response or a file with io.Copy.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	return int64(n), err
}
