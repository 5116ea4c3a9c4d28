package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	transcriptpdf "github.com/porticus-lab/go-transcript-pdf"
	"github.com/porticus-lab/go-transcript-pdf/internal/config"
)

// sessionCookie is the cookie the transcript service authenticates with.
const sessionCookie = "session"

// runExport implements the "pdf" and "text" commands.
func runExport(ctx context.Context, format transcriptpdf.Format, args []string, env environment) error {
	fs, f := newExportFlagSet(format.String(), env.stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: want exactly one transcript id or file, got %d", ErrUsage, fs.NArg())
	}
	input := fs.Arg(0)

	lookup, err := dotenvLookup(f.common.envFile, env.lookupEnv)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(f, fs, lookup, env)
	if err != nil {
		return err
	}
	log := newLogger(cfg, f.common, env.stderr)

	opts, err := exporterOptions(cfg, f, log, env)
	if err != nil {
		return err
	}
	exp, err := transcriptpdf.New(opts...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	defer exp.Close()

	var artifact *transcriptpdf.Artifact
	if isFile(input) {
		artifact, err = exportFile(ctx, exp, input, format, cfg.Output.Dir)
		if err != nil {
			log.WithError(err).Debug("export failed")
			if !f.common.quiet {
				fmt.Fprintln(env.stderr, transcriptpdf.UserMessage(err))
			}
		}
	} else {
		// The exporter's notifier reports failures unless quiet.
		artifact, err = exp.ExportByID(ctx, input, format)
	}
	if err != nil {
		if f.common.quiet {
			return err
		}
		return reportedError{err}
	}

	if !f.common.quiet {
		fmt.Fprintln(env.stdout, filepath.Join(cfg.Output.Dir, artifact.Name))
	}
	return nil
}

// exportFile exports a transcript JSON file from disk.
func exportFile(ctx context.Context, exp *transcriptpdf.Exporter, path string, format transcriptpdf.Format, dir string) (*transcriptpdf.Artifact, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := transcriptpdf.ParseSourceDocument(data)
	if err != nil {
		return nil, err
	}
	a, err := exp.Export(ctx, doc, format)
	if err != nil {
		return nil, err
	}
	if err := (transcriptpdf.DirDeliverer{Dir: dir}).Deliver(ctx, a); err != nil {
		return nil, fmt.Errorf("%w: %w", transcriptpdf.ErrPackagingFailed, err)
	}
	return a, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// dotenvLookup reads the dotenv file, if it exists, behind the process
// environment. Process variables take precedence.
func dotenvLookup(path string, lookup func(string) (string, bool)) (func(string) (string, bool), error) {
	if path == "" {
		return lookup, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return lookup, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrUsage, path, err)
	}
	return func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// loadConfig merges, in increasing precedence, the defaults, the config
// file, TRANSCRIPT_* variables and explicit flags.
func loadConfig(f *exportFlags, fs *flag.FlagSet, lookup func(string) (string, bool), env environment) (*config.Config, error) {
	path := f.common.config
	if path == "" {
		path, _ = lookup("TRANSCRIPT_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	unknown, err := cfg.ApplyEnv(lookup, env.environ)
	if err != nil {
		return nil, err
	}
	for _, name := range unknown {
		fmt.Fprintf(env.stderr, "warning: unknown environment variable %s\n", name)
	}

	if fs.Changed("output") {
		cfg.Output.Dir = f.output
	}
	if fs.Changed("base-url") {
		cfg.Service.BaseURL = f.baseURL
	}
	if fs.Changed("backend") {
		cfg.Browser.Backend = f.backend
	}
	if fs.Changed("chrome-path") {
		cfg.Browser.ChromePath = f.chromePath
	}
	if fs.Changed("timeout") {
		cfg.Browser.Timeout = f.timeout
	}
	if fs.Changed("no-sandbox") {
		cfg.Browser.NoSandbox = f.noSandbox
	}
	if fs.Changed("auto-download") {
		cfg.Browser.AutoDownload = f.autoDownload
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, f commonFlags, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if cfg.Log.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.WarnLevel
	}
	switch {
	case f.quiet:
		level = logrus.ErrorLevel
	case f.verbose:
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}

func exporterOptions(cfg *config.Config, f *exportFlags, log *logrus.Logger, env environment) ([]transcriptpdf.Option, error) {
	var fetchOpts []transcriptpdf.FetcherOption
	if ttl := cfg.CacheTTL(); ttl > 0 {
		fetchOpts = append(fetchOpts, transcriptpdf.WithCacheTTL(ttl))
	}
	if cfg.Service.Token != "" {
		fetchOpts = append(fetchOpts, transcriptpdf.WithHeader("Authorization", "Bearer "+cfg.Service.Token))
	}
	if cfg.Service.Cookie != "" {
		fetchOpts = append(fetchOpts, transcriptpdf.WithSessionCookie(sessionCookie, cfg.Service.Cookie))
	}
	fetcher, err := transcriptpdf.NewHTTPFetcher(cfg.Service.BaseURL, fetchOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidValue, err)
	}

	page := transcriptpdf.DefaultPageConfig()
	page.Scale = cfg.Page.Scale
	page.Quality = cfg.Page.Quality
	if cfg.Page.Padding > 0 {
		page.Padding = transcriptpdf.UniformMargin(cfg.Page.Padding)
	}

	opts := []transcriptpdf.Option{
		transcriptpdf.WithBackend(transcriptpdf.Backend(strings.ToLower(cfg.Browser.Backend))),
		transcriptpdf.WithTimeout(cfg.Timeout()),
		transcriptpdf.WithSettleDelay(cfg.SettleDelay()),
		transcriptpdf.WithPageConfig(page),
		transcriptpdf.WithFetcher(fetcher),
		transcriptpdf.WithDeliverer(transcriptpdf.DirDeliverer{Dir: cfg.Output.Dir}),
		transcriptpdf.WithLogger(log),
	}
	if cfg.Browser.Backend == "" {
		opts[0] = transcriptpdf.WithBackend(transcriptpdf.BackendChromedp)
	}
	if cfg.Browser.ChromePath != "" {
		opts = append(opts, transcriptpdf.WithChromePath(cfg.Browser.ChromePath))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, transcriptpdf.WithNoSandbox())
	}
	if cfg.Browser.AutoDownload {
		opts = append(opts, transcriptpdf.WithAutoDownload())
	}
	if !f.common.quiet {
		opts = append(opts,
			transcriptpdf.WithProgress(&stderrProgress{w: env.stderr}),
			transcriptpdf.WithNotifier(stderrNotifier{w: env.stderr}),
		)
	}
	return append(opts, env.exporterOpts...), nil
}
