// Copyright (c) 2025 Neomantra Corp

package source

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Discoverer downloads historic Betfair data files over HTTP, retrying
// transient failures. It replaces, in much simplified form, Betfair's own
// historic-data HTTP API: a thin fetch-and-save helper rather than a
// full catalog client, matching this package's scope (spec §10.4).
type Discoverer struct {
	client *retryablehttp.Client
	logger *slog.Logger
}

// NewDiscoverer builds a Discoverer with an exponential-backoff HTTP
// client, four retries by default.
func NewDiscoverer(logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	c := retryablehttp.NewClient()
	c.RetryMax = 4
	c.RetryWaitMin = 250 * time.Millisecond
	c.RetryWaitMax = 5 * time.Second
	c.Logger = nil // the structured slog.Logger below replaces retryablehttp's own logging
	return &Discoverer{client: c, logger: logger}
}

// FetchRemote downloads url to destDir, retrying on failure, and returns
// the path it wrote. The destination file name is taken from the URL's
// final path segment.
func (d *Discoverer) FetchRemote(url string, destDir string) (string, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", destDir, err)
	}
	destPath := filepath.Join(destDir, filepath.Base(url))
	f, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", destPath, err)
	}
	defer f.Close()

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return "", fmt.Errorf("writing %s: %w", destPath, err)
	}
	d.logger.Info("fetched remote file", "url", url, "path", destPath, "bytes", n)
	return destPath, nil
}
