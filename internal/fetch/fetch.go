// Package fetch is the byte-source collaborator: it resolves a table's URL
// to a local, re-readable path. The validation engine calls Fetch at most
// twice per table URL (once per table-pipeline pass); implementations are
// responsible for caching so the second call is free.
package fetch

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Fetcher resolves a URL to a local file path.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (localPath string, err error)
}

// FetchError wraps a download failure with the error kind the engine maps
// it to (csv_cannot_be_downloaded / file_not_found per §7).
type FetchError struct {
	Kind string
	URL  string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DefaultFetcher opens file:// and bare-path URLs directly, and downloads
// http(s):// URLs once into a process-wide cache directory keyed by the
// xxhash of the URL, so the two table-pipeline passes share one file.
type DefaultFetcher struct {
	CacheDir string
	Client   *http.Client

	mu    sync.Mutex
	cache map[string]string
}

// NewDefaultFetcher creates a fetcher backed by a temp cache directory.
// The directory is created lazily on first http(s) fetch.
func NewDefaultFetcher() *DefaultFetcher {
	return &DefaultFetcher{
		CacheDir: filepath.Join(os.TempDir(), "csvw-cache"),
		Client:   http.DefaultClient,
		cache:    make(map[string]string),
	}
}

func (f *DefaultFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &FetchError{Kind: "file_not_found", URL: rawURL, Err: err}
	}

	switch u.Scheme {
	case "", "file":
		path := rawURL
		if u.Scheme == "file" {
			path = u.Path
		}
		if _, err := os.Stat(path); err != nil {
			return "", &FetchError{Kind: "file_not_found", URL: rawURL, Err: err}
		}
		return path, nil
	case "http", "https":
		return f.fetchHTTP(ctx, rawURL)
	default:
		return "", &FetchError{Kind: "file_not_found", URL: rawURL, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}
}

func (f *DefaultFetcher) fetchHTTP(ctx context.Context, rawURL string) (string, error) {
	f.mu.Lock()
	if cached, ok := f.cache[rawURL]; ok {
		f.mu.Unlock()
		return cached, nil
	}
	f.mu.Unlock()

	if err := os.MkdirAll(f.CacheDir, 0o755); err != nil {
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: err}
	}

	key := xxhash.Sum64String(rawURL)
	dest := filepath.Join(f.CacheDir, fmt.Sprintf("%016x%s", key, extensionOf(rawURL)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	tmp := dest + randomSuffix()
	out, err := os.Create(tmp)
	if err != nil {
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: err}
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: err}
	}
	out.Close()
	if err := os.Rename(tmp, dest); err != nil {
		return "", &FetchError{Kind: "csv_cannot_be_downloaded", URL: rawURL, Err: err}
	}

	f.mu.Lock()
	f.cache[rawURL] = dest
	f.mu.Unlock()
	return dest, nil
}

func extensionOf(rawURL string) string {
	if i := strings.LastIndexByte(rawURL, '.'); i >= 0 && i > strings.LastIndexByte(rawURL, '/') {
		return rawURL[i:]
	}
	return ""
}

func randomSuffix() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf(".%x.tmp", b)
}
