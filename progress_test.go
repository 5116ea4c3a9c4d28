package transcriptpdf

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing", ErrMissingInput, msgMissingInput},
		{"fetch", fmt.Errorf("%w: server returned 404", ErrFetchFailed), msgFetchFailed},
		{"render", fmt.Errorf("%w: %w", ErrRenderFailed, errors.New("tab crashed")), msgRenderFailed},
		{"packaging", fmt.Errorf("%w: disk full", ErrPackagingFailed), msgPackageFailed + "disk full"},
		{"wrapped packaging", fmt.Errorf("export: %w", fmt.Errorf("%w: disk full", ErrPackagingFailed)), msgPackageFailed + "export: transcriptpdf: packaging failed: disk full"},
		{"other", errors.New("unexpected"), msgGeneric + "unexpected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"pdf", FormatPDF, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"docx", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestFormatString(t *testing.T) {
	if FormatPDF.String() != "pdf" || FormatText.String() != "text" {
		t.Error("unexpected format names")
	}
	if got := Format(7).String(); got != "Format(7)" {
		t.Errorf("String = %q", got)
	}
}

func TestProgressLabel(t *testing.T) {
	if progressLabel(FormatPDF) != labelExportPDF || progressLabel(FormatText) != labelExportText {
		t.Error("unexpected progress labels")
	}
}
