// Copyright crimson206, 2026. All rights reserved.

package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/crimson206/nbdigest/pkg/types"
)

// Status is the outcome of parsing one notebook in a batch.
type Status string

const (
	StatusParsed  Status = "parsed"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// BatchResult holds the outcome of a batch parse run.
type BatchResult struct {
	Parsed  int
	Skipped int
	Failed  int
}

// Total returns the total number of notebooks processed.
func (r BatchResult) Total() int {
	return r.Parsed + r.Skipped + r.Failed
}

// HasFailures reports whether any notebooks failed parsing.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ParseNotebook parses a single notebook within a batch, writing the
// result to the batch output location. If the output already exists and
// is newer than the source, the notebook is skipped.
func ParseNotebook(path string, cfg types.ParseConfig, w io.Writer) Status {
	outPath := batchOutputPath(path, cfg)

	changed, err := sourceChanged(path, outPath)
	if err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
		return StatusFailed
	}
	if !changed {
		fmt.Fprintf(w, "skipped: %s (up to date)\n", path)
		return StatusSkipped
	}

	if _, err := Save(path, outPath, cfg.RemoveSource, w); err != nil {
		fmt.Fprintf(w, "failed:  %s (%v)\n", path, err)
		return StatusFailed
	}
	return StatusParsed
}

// Batch processes a list of notebook paths, printing per-file status to
// w and returning a summary. It continues after individual failures.
func Batch(paths []string, cfg types.ParseConfig, w io.Writer) BatchResult {
	var result BatchResult
	for _, path := range paths {
		switch ParseNotebook(path, cfg, w) {
		case StatusParsed:
			result.Parsed++
		case StatusSkipped:
			result.Skipped++
		case StatusFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d parsed, %d skipped, %d failed (total: %d)\n",
		result.Parsed, result.Skipped, result.Failed, result.Total())
	return result
}

// Dir parses every .ipynb file in cfg.NotebooksDir through Batch.
func Dir(cfg types.ParseConfig, w io.Writer) (BatchResult, error) {
	entries, err := os.ReadDir(cfg.NotebooksDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("reading notebooks directory %s: %w", cfg.NotebooksDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), notebookExt) {
			continue
		}
		paths = append(paths, filepath.Join(cfg.NotebooksDir, entry.Name()))
	}

	return Batch(paths, cfg, w), nil
}

// batchOutputPath places derived output under cfg.ParsedDir when set,
// next to the source otherwise.
func batchOutputPath(path string, cfg types.ParseConfig) string {
	if cfg.ParsedDir == "" {
		return OutputPath(path)
	}
	return filepath.Join(cfg.ParsedDir, filepath.Base(OutputPath(path)))
}

// sourceChanged reports whether the notebook is newer than outPath.
// Returns true if the output does not exist yet.
func sourceChanged(path, outPath string) (bool, error) {
	srcInfo, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("stat notebook %s: %w", path, err)
	}

	outInfo, err := os.Stat(outPath)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("stat output %s: %w", outPath, err)
	}

	return srcInfo.ModTime().After(outInfo.ModTime()), nil
}
