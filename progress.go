package transcriptpdf

import (
	"errors"
	"fmt"
	"strings"
)

// Format selects the artifact [Exporter.ExportByID] produces.
type Format int

const (
	FormatPDF Format = iota
	FormatText
)

func (f Format) String() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatText:
		return "text"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps "pdf" or "text" (also "txt") to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "pdf":
		return FormatPDF, nil
	case "text", "txt":
		return FormatText, nil
	}
	return 0, fmt.Errorf("unknown format %q", s)
}

// Progress is a blocking indicator shown while an export is running.
// Every Show is followed by exactly one Hide.
type Progress interface {
	Show(label string)
	Hide()
}

// Notifier surfaces a single human-readable message when an export fails.
type Notifier interface {
	Alert(msg string)
}

type nopProgress struct{}

func (nopProgress) Show(string) {}
func (nopProgress) Hide()       {}

type nopNotifier struct{}

func (nopNotifier) Alert(string) {}

// Progress labels.
const (
	labelFetching    = "جاري تحميل البيانات..."
	labelExportPDF   = "جاري إنشاء PDF..."
	labelExportText  = "جاري تصدير Word..."
	msgMissingInput  = "لا توجد بيانات للتصدير. يرجى تفريغ فيديو أولاً."
	msgFetchFailed   = "حدث خطأ: فشل في تحميل البيانات من السيرفر"
	msgRenderFailed  = "حدث خطأ في تصدير PDF. يرجى المحاولة مرة أخرى."
	msgPackageFailed = "حدث خطأ في تصدير PDF: "
	msgGeneric       = "حدث خطأ: "
)

func progressLabel(f Format) string {
	if f == FormatText {
		return labelExportText
	}
	return labelExportPDF
}

// UserMessage returns the localized message shown to a user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingInput):
		return msgMissingInput
	case errors.Is(err, ErrFetchFailed):
		return msgFetchFailed
	case errors.Is(err, ErrRenderFailed):
		return msgRenderFailed
	case errors.Is(err, ErrPackagingFailed):
		return msgPackageFailed + causeOf(err, ErrPackagingFailed)
	}
	return msgGeneric + err.Error()
}

// causeOf returns the text of err after the kind prefix.
func causeOf(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}
