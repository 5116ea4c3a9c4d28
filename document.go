package transcriptpdf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultTitle is used when a payload carries no usable title.
const DefaultTitle = "تفريغ محتوى يوتيوب"

// SourceDocument is the transcript to export. Only Title is guaranteed to be
// set once a document has been ingested; every other field may be empty.
type SourceDocument struct {
	Title        string
	SourceURL    string
	Introduction string
	Summary      string
	KeyPoints    string
	FullContent  string
}

// fieldPath addresses a string value in a decoded JSON object. Paths with
// more than one element descend into nested objects.
type fieldPath []string

// Accepted field names per attribute, in resolution order.
var (
	titleFields        = []fieldPath{{"videoTitle"}, {"video_title"}, {"title"}, {"output", "subject"}}
	sourceURLFields    = []fieldPath{{"video_url"}, {"videoUrl"}, {"url"}}
	introductionFields = []fieldPath{{"introduction"}, {"output", "introduction"}}
	summaryFields      = []fieldPath{{"summary"}}
	keyPointsFields    = []fieldPath{{"mainPoints"}, {"main_points"}}
	fullContentFields  = []fieldPath{{"fullContent"}, {"full_content"}, {"fullcontent"}}
)

// ParseSourceDocument decodes a transcript JSON object as served by
// /api/transcript/{id}. An empty body, JSON null, or a non-object payload is
// reported as [ErrMissingInput].
func ParseSourceDocument(data []byte) (*SourceDocument, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrMissingInput
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: decoding transcript: %w", ErrMissingInput, err)
	}
	return SourceDocumentFromMap(payload)
}

// SourceDocumentFromMap resolves the recognised aliases of an already decoded
// payload. The first alias holding a non-blank string wins.
func SourceDocumentFromMap(payload map[string]any) (*SourceDocument, error) {
	if payload == nil {
		return nil, ErrMissingInput
	}
	doc := &SourceDocument{
		Title:        resolveField(payload, titleFields),
		SourceURL:    resolveField(payload, sourceURLFields),
		Introduction: resolveField(payload, introductionFields),
		Summary:      resolveField(payload, summaryFields),
		KeyPoints:    resolveField(payload, keyPointsFields),
		FullContent:  resolveField(payload, fullContentFields),
	}
	if doc.Title == "" {
		doc.Title = DefaultTitle
	}
	return doc, nil
}

func resolveField(payload map[string]any, paths []fieldPath) string {
	for _, path := range paths {
		if s, ok := lookup(payload, path); ok && strings.TrimSpace(s) != "" {
			return norm.NFC.String(s)
		}
	}
	return ""
}

func lookup(obj map[string]any, path fieldPath) (string, bool) {
	for i, key := range path {
		v, ok := obj[key]
		if !ok {
			return "", false
		}
		if i == len(path)-1 {
			s, ok := v.(string)
			return s, ok
		}
		if obj, ok = v.(map[string]any); !ok {
			return "", false
		}
	}
	return "", false
}

// normalized returns a copy with a defaulted title and NFC-normalised fields.
// Documents built in memory by callers go through the same rules as fetched
// ones.
func (d *SourceDocument) normalized() *SourceDocument {
	out := &SourceDocument{
		Title:        norm.NFC.String(d.Title),
		SourceURL:    norm.NFC.String(d.SourceURL),
		Introduction: norm.NFC.String(d.Introduction),
		Summary:      norm.NFC.String(d.Summary),
		KeyPoints:    norm.NFC.String(d.KeyPoints),
		FullContent:  norm.NFC.String(d.FullContent),
	}
	if strings.TrimSpace(out.Title) == "" {
		out.Title = DefaultTitle
	}
	return out
}
