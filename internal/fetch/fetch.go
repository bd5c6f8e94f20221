// Copyright crimson206, 2026. All rights reserved.

// Package fetch downloads notebook files over HTTP into the local
// notebooks directory.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/crimson206/nbdigest/internal/httputil"
	"github.com/crimson206/nbdigest/internal/notebook"
	"github.com/crimson206/nbdigest/pkg/types"
)

const notebookExt = ".ipynb"

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Total returns the total number of URLs processed.
func (r BatchResult) Total() int {
	return r.Downloaded + r.Skipped + r.Failed
}

// HasFailures reports whether any downloads failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Filename derives the local filename for a notebook URL from its last
// path segment, appending the .ipynb suffix when missing.
func Filename(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing URL %q: %w", rawURL, err)
	}
	base := path.Base(u.Path)
	if base == "" || base == "." || base == "/" {
		return "", fmt.Errorf("cannot derive a filename from %q", rawURL)
	}
	if !strings.HasSuffix(base, notebookExt) {
		base += notebookExt
	}
	return base, nil
}

// Notebook downloads a single notebook URL into cfg.NotebooksDir. If the
// file already exists the download is skipped. The response body must
// decode as a notebook document; anything else (an HTML error page, a
// rendered view instead of the raw file) fails the fetch. The skipped
// return value indicates whether the download was skipped.
func Notebook(ctx context.Context, client *http.Client, rawURL string, cfg types.FetchConfig, w io.Writer) (destPath string, skipped bool, err error) {
	name, err := Filename(rawURL)
	if err != nil {
		return "", false, err
	}
	destPath = filepath.Join(cfg.NotebooksDir, name)

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already exists)\n", name)
		return destPath, true, nil
	}

	if err := os.MkdirAll(cfg.NotebooksDir, 0o755); err != nil {
		return "", false, fmt.Errorf("creating notebooks directory %s: %w", cfg.NotebooksDir, err)
	}

	fmt.Fprintf(w, "downloading: %s\n", name)

	if err := download(ctx, client, rawURL, destPath, cfg); err != nil {
		return "", false, fmt.Errorf("downloading %s: %w", name, err)
	}
	return destPath, false, nil
}

// Batch processes multiple URLs, printing per-item status and returning
// a summary. It continues after individual failures and applies a delay
// between consecutive downloads.
func Batch(ctx context.Context, client *http.Client, urls []string, cfg types.FetchConfig, w io.Writer) BatchResult {
	var result BatchResult
	for i, rawURL := range urls {
		if i > 0 && cfg.DownloadDelay > 0 {
			select {
			case <-ctx.Done():
				fmt.Fprintf(w, "failed:  %s (%v)\n", rawURL, ctx.Err())
				result.Failed++
				continue
			case <-time.After(cfg.DownloadDelay):
			}
		}
		_, wasSkipped, err := Notebook(ctx, client, rawURL, cfg, w)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", rawURL, err)
			result.Failed++
			continue
		}
		if wasSkipped {
			result.Skipped++
		} else {
			result.Downloaded++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d downloaded, %d skipped, %d failed (total: %d)\n",
		result.Downloaded, result.Skipped, result.Failed, result.Total())
	return result
}

// download fetches url to destPath using a temporary file so a partial
// download never shadows a notebook.
func download(ctx context.Context, client *http.Client, rawURL, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	// Reject responses that are not notebook documents before anything
	// lands in the notebooks directory.
	if _, err := notebook.Parse(data); err != nil {
		return fmt.Errorf("response is not a notebook: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
