package transcriptpdf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Fetcher retrieves a stored transcript by its identifier.
type Fetcher interface {
	Fetch(ctx context.Context, id string) (*SourceDocument, error)
}

const (
	transcriptPath = "/api/transcript/"
	userAgent      = "go-transcript-pdf/1.0"
	// maxBodySize bounds a single transcript response (16 MB).
	maxBodySize = 16 << 20
)

// HTTPFetcher reads transcripts from the transcript service at
// <BaseURL>/api/transcript/{id}. Successful responses are cached by id for
// the configured TTL. Requests are never retried.
//
// The zero value is not usable; create one with [NewHTTPFetcher].
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
	header  http.Header
	cache   *cache.Cache
}

// FetcherOption configures an [HTTPFetcher].
type FetcherOption func(*HTTPFetcher)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithHeader adds a header sent with every request, for example an
// Authorization token.
func WithHeader(key, value string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.header.Add(key, value)
	}
}

// WithSessionCookie authenticates requests with the service's session cookie.
func WithSessionCookie(name, value string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.header.Add("Cookie", (&http.Cookie{Name: name, Value: value}).String())
	}
}

// WithCacheTTL keeps fetched documents for ttl. Zero disables caching.
func WithCacheTTL(ttl time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if ttl <= 0 {
			f.cache = nil
			return
		}
		f.cache = cache.New(ttl, 2*ttl)
	}
}

// NewHTTPFetcher returns a fetcher for the service rooted at baseURL.
// Caching is off unless [WithCacheTTL] is given.
func NewHTTPFetcher(baseURL string, opts ...FetcherOption) (*HTTPFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("transcriptpdf: invalid service URL %q", baseURL)
	}
	f := &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		header:  make(http.Header),
	}
	for _, o := range opts {
		o(f)
	}
	return f, nil
}

// Fetch downloads and decodes the transcript with the given id. An empty id
// is [ErrMissingInput] and makes no request. Transport failures, non-2xx
// statuses and malformed bodies are [ErrFetchFailed].
func (f *HTTPFetcher) Fetch(ctx context.Context, id string) (*SourceDocument, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrMissingInput
	}
	if f.cache != nil {
		if v, ok := f.cache.Get(id); ok {
			doc := *v.(*SourceDocument)
			return &doc, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+transcriptPath+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header = f.header.Clone()
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: server returned %s", ErrFetchFailed, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrFetchFailed, err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrFetchFailed, maxBodySize)
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: response is not JSON", ErrFetchFailed)
	}

	doc, err := ParseSourceDocument(body)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		stored := *doc
		f.cache.SetDefault(id, &stored)
	}
	return doc, nil
}
