// Package fetch retrieves raw content over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pagekeep/1.0"
)

// Result holds the raw content and response metadata from one fetch.
type Result struct {
	// URL the content was served from, after following redirects.
	EffectiveURL string
	// Value of the Content-Type response header.
	ContentType string
	Headers     http.Header
	Body        string
}

// NetworkError reports a failed transfer.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %v: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves the content of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}

// HTTPFetcher fetches over HTTP with sensible defaults.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: defaultTimeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("unexpected status %v", resp.StatusCode)}
	}

	// Observe transfer progress from a background task. Closing `done` is
	// the one-shot completion signal; the progress task never outlives
	// the transfer.
	var transferred atomic.Int64
	done := make(chan struct{})
	go reportProgress(ctx, url, &transferred, resp.ContentLength, done)

	body, err := io.ReadAll(countingReader{r: resp.Body, n: &transferred})
	close(done)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	return &Result{
		EffectiveURL: resp.Request.URL.String(),
		ContentType:  resp.Header.Get("Content-Type"),
		Headers:      resp.Header,
		Body:         string(body),
	}, nil
}

type countingReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// reportProgress periodically logs how many bytes of the transfer have
// arrived, until `done` is closed.
func reportProgress(ctx context.Context, url string, transferred *atomic.Int64, total int64, done <-chan struct{}) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			slogctx.Debug(ctx, "Transfer in progress", "url", url, "bytes", transferred.Load(), "total", total)
		}
	}
}
