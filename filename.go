package transcriptpdf

import (
	"regexp"
	"strings"
)

// maxFilenameRunes is applied before illegal characters are removed, so a
// sanitized name may end up shorter.
const maxFilenameRunes = 50

// fallbackFilename is used by the exporter when a title sanitizes to "".
const fallbackFilename = "transcript"

var (
	illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun        = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
)

// SanitizeFilename derives a file name stem from a document title: it keeps
// at most the first 50 characters, drops characters that common file systems
// reject, replaces each run of whitespace with a single underscore, and trims
// the result. The result may be empty.
func SanitizeFilename(title string) string {
	if r := []rune(title); len(r) > maxFilenameRunes {
		title = string(r[:maxFilenameRunes])
	}
	title = illegalFilenameChars.ReplaceAllString(title, "")
	title = whitespaceRun.ReplaceAllString(title, "_")
	return strings.TrimSpace(title)
}

// artifactName returns the file name for an export of title with ext.
func artifactName(title, ext string) string {
	stem := SanitizeFilename(title)
	if stem == "" {
		stem = fallbackFilename
	}
	return stem + ext
}
