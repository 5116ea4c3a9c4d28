package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
}

// exportFlags holds flags for the pdf and text commands.
type exportFlags struct {
	common       commonFlags
	output       string
	baseURL      string
	backend      string
	chromePath   string
	timeout      string
	noSandbox    bool
	autoDownload bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file to load if present")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log details to stderr")
}

func newExportFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *exportFlags) {
	f := &exportFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.StringVar(&f.baseURL, "base-url", "", "transcript service URL")
	fs.StringVar(&f.backend, "backend", "", "browser driver: chromedp or rod")
	fs.StringVar(&f.chromePath, "chrome-path", "", "Chrome or Chromium executable")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "export timeout, e.g. 90s")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
	fs.BoolVar(&f.autoDownload, "auto-download", false, "download Chromium when none is found")
	return fs, f
}
