package transcriptpdf

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

func TestInvokeJS(t *testing.T) {
	got, err := invokeJS("(x) => x", []float64{0, 12.5})
	if err != nil {
		t.Fatal(err)
	}
	if want := "((x) => x)([0,12.5])"; got != want {
		t.Errorf("invokeJS = %q, want %q", got, want)
	}
	if got, _ := invokeJS("() => 1"); got != "(() => 1)()" {
		t.Errorf("invokeJS without args = %q", got)
	}
}

func TestPlanFromMeasurement(t *testing.T) {
	spacers, err := planFromMeasurement(`[{"top":0,"height":900,"avoid":false},{"top":900,"height":300,"avoid":true}]`, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(spacers, []float64{0, 100}) {
		t.Errorf("spacers = %v", spacers)
	}
	if countBreaks(spacers) != 1 {
		t.Errorf("countBreaks = %d", countBreaks(spacers))
	}
	if _, err := planFromMeasurement("not json", 1000); err == nil {
		t.Error("expected decode error")
	}
}

func TestRasterSpecViewportHeight(t *testing.T) {
	if got := (RasterSpec{PageHeight: 1122.5}).viewportHeight(); got != 1123 {
		t.Errorf("viewportHeight = %d", got)
	}
}

func TestSurface(t *testing.T) {
	s, err := acquireSurface("<p>hi</p>")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s.URL(), "file://") || !strings.HasSuffix(s.URL(), ".html") {
		t.Errorf("URL = %q", s.URL())
	}
	path := strings.TrimPrefix(s.URL(), "file://")
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "<p>hi</p>" {
		t.Fatalf("surface content = %q, %v", data, err)
	}
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("surface file still exists")
	}
	if err := s.Release(); err != nil {
		t.Errorf("second Release: %v", err)
	}
}

func TestWithHeadless(t *testing.T) {
	tests := []struct {
		mode    string
		enabled bool
		values  []string
	}{
		{"", true, nil},
		{"true", true, nil},
		{"new", true, []string{"new"}},
		{"false", false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			l := withHeadless(launcher.New(), tt.mode)
			values, ok := l.GetFlags(flags.Headless)
			if ok != tt.enabled {
				t.Fatalf("headless set = %v, want %v", ok, tt.enabled)
			}
			if len(values) != len(tt.values) || (len(values) > 0 && values[0] != tt.values[0]) {
				t.Errorf("headless values = %v, want %v", values, tt.values)
			}
		})
	}
}
