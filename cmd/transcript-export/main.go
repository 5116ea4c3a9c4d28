// transcript-export renders stored YouTube transcripts as paginated A4 PDFs
// or plain-text files.
//
// Usage:
//
//	transcript-export pdf [options] <id | file.json>
//	transcript-export text [options] <id | file.json>
//	transcript-export inspect <file.pdf>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/automaxprocs/maxprocs"

	transcriptpdf "github.com/porticus-lab/go-transcript-pdf"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage reports invalid command-line usage.
var ErrUsage = errors.New("invalid usage")

// reportedError wraps an error whose message the user has already been
// shown, so run does not print it a second time.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

// environment is everything run needs from the process.
type environment struct {
	stdout    io.Writer
	stderr    io.Writer
	lookupEnv func(string) (string, bool)
	environ   []string
	// extra options appended to every Exporter, used by tests.
	exporterOpts []transcriptpdf.Option
}

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env := environment{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
		environ:   os.Environ(),
	}
	os.Exit(run(ctx, os.Args, env))
}

// run executes the command in args and returns the process exit code.
func run(ctx context.Context, args []string, env environment) int {
	if len(args) < 2 {
		printUsage(env.stderr)
		return ExitUsage
	}

	var err error
	switch cmd := args[1]; cmd {
	case "pdf":
		err = runExport(ctx, transcriptpdf.FormatPDF, args[2:], env)
	case "text", "txt":
		err = runExport(ctx, transcriptpdf.FormatText, args[2:], env)
	case "inspect":
		err = runInspect(args[2:], env)
	case "version", "--version":
		fmt.Fprintf(env.stdout, "transcript-export %s\n", Version)
	case "help", "-h", "--help":
		printUsage(env.stdout)
	default:
		fmt.Fprintf(env.stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.stderr)
		return ExitUsage
	}

	var reported reportedError
	if err != nil && !errors.As(err, &reported) {
		fmt.Fprintf(env.stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `transcript-export - export YouTube transcripts as PDF or text

Usage:
  transcript-export pdf [options] <id | file.json>
  transcript-export text [options] <id | file.json>
  transcript-export inspect <file.pdf>

Commands:
  pdf       Render a transcript as a paginated A4 PDF
  text      Write a transcript as a plain-text file
  inspect   Show page count, page sizes and images of a PDF

A numeric or opaque argument is fetched from the transcript service at
<base-url>/api/transcript/<id>; an existing file is read as transcript JSON.

Options:
  -c, --config <file>    YAML config file
      --env-file <file>  dotenv file to load if present (default ".env")
  -o, --output <dir>     output directory (default ".")
      --base-url <url>   transcript service URL
      --backend <name>   browser driver: chromedp or rod
      --chrome-path <p>  Chrome or Chromium executable
  -t, --timeout <d>      export timeout, e.g. 90s
      --no-sandbox       disable the Chrome sandbox (needed as root)
      --auto-download    download Chromium when none is found
  -q, --quiet            only show errors
  -v, --verbose          log details to stderr

Environment:
  TRANSCRIPT_BASE_URL, TRANSCRIPT_TOKEN, TRANSCRIPT_COOKIE, TRANSCRIPT_BACKEND,
  TRANSCRIPT_CHROME_PATH, TRANSCRIPT_NO_SANDBOX, TRANSCRIPT_OUTPUT_DIR, ...

Examples:
  transcript-export pdf 42
  transcript-export text -o exports/ transcript.json
  transcript-export inspect My_Video.pdf
`)
}
