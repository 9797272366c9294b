package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG signature for MIME sniffing.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

func TestHTTPFetcherFetch(t *testing.T) {
	payload := append(append([]byte(nil), pngHeader...), []byte("fake image payload")...)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, zerolog.Nop())

	image, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, payload, image.Bytes)
	require.Equal(t, "image/png", image.MIME)
}

func TestHTTPFetcherFetchNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, zerolog.Nop())

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestHTTPFetcherFetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, zerolog.Nop())

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestHTTPFetcherFetchConnectionRefused(t *testing.T) {
	fetcher := NewHTTPFetcher(time.Second, zerolog.Nop())

	_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/image.png")
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
}
