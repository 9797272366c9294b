package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// ImageData is a downloaded illustration held entirely in memory. Generated
// images are bounded (single 1024x1024 render, ~1-2 MB), so buffering the
// whole body is acceptable.
type ImageData struct {
	Bytes []byte
	MIME  string
}

// FetchError wraps a failed image download.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("image download failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher downloads generated images into memory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (ImageData, error)
}

// HTTPFetcher implements Fetcher with a plain HTTP GET and a bounded timeout.
type HTTPFetcher struct {
	client *http.Client
	logger zerolog.Logger
}

// NewHTTPFetcher constructs a fetcher whose requests time out after the given
// duration.
func NewHTTPFetcher(timeout time.Duration, logger zerolog.Logger) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
		logger: logger.With().Str("component", "image_fetcher").Logger(),
	}
}

// Fetch downloads the full response body and sniffs its MIME type.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (ImageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ImageData{}, &FetchError{Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return ImageData{}, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return ImageData{}, &FetchError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ImageData{}, &FetchError{Err: err}
	}

	if len(body) == 0 {
		return ImageData{}, &FetchError{Err: fmt.Errorf("empty response body")}
	}

	mime := mimetype.Detect(body).String()
	f.logger.Debug().Int("bytes", len(body)).Str("mime", mime).Msg("image downloaded")

	return ImageData{Bytes: body, MIME: mime}, nil
}
