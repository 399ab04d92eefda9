// Package fetcher reads the raw election exports: CSV and XLSX sheets, JSON
// artifacts and OCR archives, from local paths or over HTTP.
package fetcher

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Fetcher downloads remote sources.
type Fetcher interface {
	// Download fetches the URL and returns the response body.
	Download(ctx context.Context, url string) (io.ReadCloser, error)

	// DownloadToFile fetches the URL and writes it to path. Returns bytes written.
	DownloadToFile(ctx context.Context, url string, path string) (int64, error)
}

// IsURL reports whether location is an http(s) URL rather than a file path.
func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Open opens a local file or downloads a URL. f may be nil when location is
// known to be local.
func Open(ctx context.Context, f Fetcher, location string) (io.ReadCloser, error) {
	if IsURL(location) {
		if f == nil {
			return nil, eris.Errorf("fetcher: no http fetcher for %s", location)
		}
		return f.Download(ctx, location)
	}
	file, err := os.Open(location)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: open %s", location)
	}
	return file, nil
}
