// Package transcriptpdf exports YouTube video transcripts as paginated A4
// PDFs or plain-text files.
//
// A transcript is described by a [SourceDocument]. Payloads from the
// transcript service use several spellings for the same field; decode them
// with [ParseSourceDocument]:
//
//	doc, err := transcriptpdf.ParseSourceDocument(body)
//
// # PDF export
//
// The document is laid out right-to-left in a headless browser at the width
// of an A4 page, captured as one image, and sliced into pages:
//
//	e, err := transcriptpdf.New(transcriptpdf.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	a, err := e.ExportPDF(ctx, doc)
//	a.Name          // "My_Video.pdf"
//	a.Bytes()       // []byte
//	a.WriteTo(w)    // io.WriterTo
//
// Introduction, summary and key points sections are moved to the next page
// rather than split, as long as they fit on one page. The full content
// section flows freely.
//
// Two browser drivers are built in, chromedp (default) and go-rod:
//
//	e, err := transcriptpdf.New(transcriptpdf.WithBackend(transcriptpdf.BackendRod))
//
// Chrome or Chromium must be available in PATH, or use [WithAutoDownload].
//
// # Text export
//
// [Exporter.ExportText] needs no browser:
//
//	a, err := e.ExportText(ctx, doc)
//
// # Exporting stored transcripts
//
// With a [Fetcher] and a [Deliverer] configured, [Exporter.ExportByID] runs
// the whole flow: fetch, export, deliver, with a [Progress] indicator shown
// and a single [Notifier] message on failure:
//
//	f, _ := transcriptpdf.NewHTTPFetcher("https://transcripts.example.com",
//	    transcriptpdf.WithCacheTTL(5*time.Minute))
//	e, _ := transcriptpdf.New(
//	    transcriptpdf.WithFetcher(f),
//	    transcriptpdf.WithDeliverer(transcriptpdf.DirDeliverer{Dir: "exports"}),
//	)
//	a, err := e.ExportByID(ctx, "42", transcriptpdf.FormatPDF)
//
// # Errors
//
// Export errors wrap one of [ErrMissingInput], [ErrFetchFailed],
// [ErrRenderFailed] or [ErrPackagingFailed]. [UserMessage] turns them into
// the localized text shown to users.
package transcriptpdf
